package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"jira-triage-snapshot/internal/common"
	"jira-triage-snapshot/internal/interfaces"
	"jira-triage-snapshot/internal/models"
)

const (
	runsBucket     = "runs"
	recordsBucket  = "records"
	statusBucket   = "status"
	metadataBucket = "metadata"
	latestRunKey   = "latest"
)

type storage struct {
	db     *bolt.DB
	config *common.StorageConfig
}

// NewStorage opens the snapshot database, creating its directory and
// buckets when missing.
func NewStorage(config *common.StorageConfig) (interfaces.Storage, error) {
	dbDir := filepath.Dir(config.DatabasePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, common.WrapError(err, common.ErrorTypeStorage, "create_dir", "failed to create database directory")
	}

	db, err := bolt.Open(config.DatabasePath, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, common.WrapError(err, common.ErrorTypeStorage, "open_db", "failed to open database").
			WithContext("path", config.DatabasePath)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{runsBucket, recordsBucket, statusBucket, metadataBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, common.WrapError(err, common.ErrorTypeStorage, "create_buckets", "failed to create buckets")
	}

	return &storage{
		db:     db,
		config: config,
	}, nil
}

func (s *storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSnapshot persists one run's summary, records and status rows under
// the run ID and marks the run as latest, all in one transaction.
func (s *storage) SaveSnapshot(run *models.RunSummary, records []models.Record, statuses []models.StatusRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		key := []byte(run.RunID)

		runData, err := json.Marshal(run)
		if err != nil {
			return common.WrapError(err, common.ErrorTypeStorage, "marshal_run", "failed to marshal run summary")
		}
		if err := tx.Bucket([]byte(runsBucket)).Put(key, runData); err != nil {
			return err
		}

		recordData, err := json.Marshal(records)
		if err != nil {
			return common.WrapError(err, common.ErrorTypeStorage, "marshal_records", "failed to marshal records")
		}
		if err := tx.Bucket([]byte(recordsBucket)).Put(key, recordData); err != nil {
			return err
		}

		statusData, err := json.Marshal(statuses)
		if err != nil {
			return common.WrapError(err, common.ErrorTypeStorage, "marshal_status", "failed to marshal status records")
		}
		if err := tx.Bucket([]byte(statusBucket)).Put(key, statusData); err != nil {
			return err
		}

		return tx.Bucket([]byte(metadataBucket)).Put([]byte(latestRunKey), key)
	})
}

func (s *storage) LoadRun(runID string) (*models.RunSummary, error) {
	var run *models.RunSummary

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(runsBucket)).Get([]byte(runID))
		if data == nil {
			return common.NewStorageError("run_not_found", "no run with that ID").WithContext("run_id", runID)
		}
		run = &models.RunSummary{}
		return json.Unmarshal(data, run)
	})

	return run, err
}

func (s *storage) LoadRecords(runID string) ([]models.Record, error) {
	var records []models.Record

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(recordsBucket)).Get([]byte(runID))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &records)
	})

	return records, err
}

func (s *storage) LoadStatusRecords(runID string) ([]models.StatusRecord, error) {
	var statuses []models.StatusRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(statusBucket)).Get([]byte(runID))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &statuses)
	})

	return statuses, err
}

// LatestRunID returns the ID of the most recently saved run, or the
// empty string when no run exists yet.
func (s *storage) LatestRunID() (string, error) {
	var runID string

	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket([]byte(metadataBucket)).Get([]byte(latestRunKey)); data != nil {
			runID = string(data)
		}
		return nil
	})

	return runID, err
}

// ListRuns returns every stored run summary, newest first.
func (s *storage) ListRuns() ([]*models.RunSummary, error) {
	var runs []*models.RunSummary

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(runsBucket)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var run models.RunSummary
			if err := json.Unmarshal(v, &run); err != nil {
				continue
			}
			runs = append(runs, &run)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Started.After(runs[j].Started)
	})

	return runs, nil
}
