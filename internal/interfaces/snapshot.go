package interfaces

import (
	"context"

	"jira-triage-snapshot/internal/models"
)

// WordLocator produces OCR word tokens from screenshot image bytes.
type WordLocator interface {
	Locate(imageData []byte) ([]models.Token, error)
	Close() error
}

// JiraClient fetches issue records from the Jira REST API.
type JiraClient interface {
	SearchIssues(jql string, maxResults int) ([]models.Record, error)
}

// Collector runs one snapshot end to end: ingest, classify, report, persist.
type Collector interface {
	CollectFromImage(imagePath string) (*models.RunSummary, error)
	CollectFromJira() (*models.RunSummary, error)
	Close() error
}

// Storage persists run snapshots.
type Storage interface {
	SaveSnapshot(run *models.RunSummary, records []models.Record, statuses []models.StatusRecord) error
	LoadRun(runID string) (*models.RunSummary, error)
	LoadRecords(runID string) ([]models.Record, error)
	LoadStatusRecords(runID string) ([]models.StatusRecord, error)
	LatestRunID() (string, error)
	ListRuns() ([]*models.RunSummary, error)
	Close() error
}

// WebService is the long-running HTTP front end used in serve mode.
type WebService interface {
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
}
