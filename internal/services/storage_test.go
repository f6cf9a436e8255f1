package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jira-triage-snapshot/internal/common"
	"jira-triage-snapshot/internal/interfaces"
	"jira-triage-snapshot/internal/models"
)

func newTestStorage(t *testing.T) interfaces.Storage {
	t.Helper()

	store, err := NewStorage(&common.StorageConfig{
		DatabasePath: filepath.Join(t.TempDir(), "snapshot.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func testRun(id string, started time.Time) *models.RunSummary {
	return &models.RunSummary{
		RunID:     id,
		Source:    models.SourceImage,
		Started:   started,
		Completed: started.Add(2 * time.Second),
		Records:   3,
		Success:   1,
		Failed:    1,
		Orphans:   1,
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	store := newTestStorage(t)

	records := []models.Record{
		{Key: "OPS-1", Summary: "backup failed", Labels: "oneview_triagex_failed"},
		{Key: "OPS-2", Summary: "restore ok", Labels: "oneview_triagex_success"},
	}
	statuses := []models.StatusRecord{
		{JiraID: "OPS-1", Status: models.StatusFailed, Link: "https://j/browse/OPS-1"},
	}

	run := testRun("run-1", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, store.SaveSnapshot(run, records, statuses))

	loaded, err := store.LoadRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, run.RunID, loaded.RunID)
	assert.Equal(t, run.Records, loaded.Records)

	loadedRecords, err := store.LoadRecords("run-1")
	require.NoError(t, err)
	assert.Equal(t, records, loadedRecords)

	loadedStatuses, err := store.LoadStatusRecords("run-1")
	require.NoError(t, err)
	assert.Equal(t, statuses, loadedStatuses)
}

func TestLoadRunNotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.LoadRun("missing")
	assert.Error(t, err)
}

func TestLatestRunID(t *testing.T) {
	store := newTestStorage(t)

	latest, err := store.LatestRunID()
	require.NoError(t, err)
	assert.Empty(t, latest)

	require.NoError(t, store.SaveSnapshot(testRun("run-a", time.Now()), nil, nil))
	require.NoError(t, store.SaveSnapshot(testRun("run-b", time.Now()), nil, nil))

	latest, err = store.LatestRunID()
	require.NoError(t, err)
	assert.Equal(t, "run-b", latest)
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newTestStorage(t)

	base := time.Now().UTC()
	require.NoError(t, store.SaveSnapshot(testRun("old", base.Add(-time.Hour)), nil, nil))
	require.NoError(t, store.SaveSnapshot(testRun("new", base), nil, nil))

	runs, err := store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].RunID)
	assert.Equal(t, "old", runs[1].RunID)
}

func TestLoadRecordsEmptyRun(t *testing.T) {
	store := newTestStorage(t)

	records, err := store.LoadRecords("never-saved")
	require.NoError(t, err)
	assert.Empty(t, records)
}
