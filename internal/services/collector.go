package services

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"jira-triage-snapshot/internal/classifier"
	"jira-triage-snapshot/internal/common"
	"jira-triage-snapshot/internal/interfaces"
	"jira-triage-snapshot/internal/models"
	"jira-triage-snapshot/internal/ocr"
	"jira-triage-snapshot/internal/table"
)

type collector struct {
	config     *common.Config
	locator    interfaces.WordLocator
	client     interfaces.JiraClient
	storage    interfaces.Storage
	assembler  *table.Assembler
	classifier *classifier.Classifier
	reporter   *Reporter
	logger     arbor.ILogger
}

// NewCollector wires a snapshot collector. The Jira client is only
// created when an API token is configured; the OCR locator is created
// lazily on the first image run because the Tesseract engine is
// expensive to start.
func NewCollector(config *common.Config, storage interfaces.Storage, logger arbor.ILogger) (interfaces.Collector, error) {
	c := &collector{
		config:     config,
		storage:    storage,
		assembler:  table.NewAssembler(config.Table.RowTolerance, config.Table.ColumnGapThreshold),
		classifier: classifier.New(config.Jira.BaseURL, config.Classifier.ConflictPolicy),
		reporter:   NewReporter(&config.Reports),
		logger:     logger,
	}

	if config.UsesAPI() {
		c.client = NewJiraClient(&config.Jira)
	}

	return c, nil
}

func (c *collector) Close() error {
	if c.locator != nil {
		c.locator.Close()
	}
	if c.storage != nil {
		return c.storage.Close()
	}
	return nil
}

// CollectFromImage rebuilds the issue table from a screenshot, classifies
// the records and writes the run's reports and snapshot.
func (c *collector) CollectFromImage(imagePath string) (*models.RunSummary, error) {
	started := time.Now()

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, common.WrapError(err, common.ErrorTypeImage, "read_image", "failed to read source image").
			WithContext("path", imagePath)
	}

	if c.locator == nil {
		locator, err := ocr.New(&c.config.OCR)
		if err != nil {
			return nil, err
		}
		c.locator = locator
	}

	tokens, err := c.locator.Locate(imageData)
	if err != nil {
		return nil, err
	}

	c.logger.Info().Str("image", imagePath).Int("tokens", len(tokens)).Msg("OCR completed")

	if len(tokens) == 0 {
		c.logger.Warn().Str("image", imagePath).Msg("no text recognised in image")
	}

	result := c.assembler.Assemble(tokens)
	if result.Orphans > 0 {
		c.logger.Warn().Int("orphans", result.Orphans).Msg("discarded rows with no record to attach to")
	}

	return c.finish(started, models.SourceImage, result.Records, result.Orphans)
}

// CollectFromJira fetches issues through the REST API using the
// configured JQL filter.
func (c *collector) CollectFromJira() (*models.RunSummary, error) {
	started := time.Now()

	if c.client == nil {
		return nil, common.NewConfigurationError("jira_not_configured",
			"Jira API access requires an api_token (or JIRA_API_TOKEN)")
	}

	records, err := c.client.SearchIssues(c.config.Jira.JQL, c.config.Jira.MaxResults)
	if err != nil {
		return nil, err
	}

	c.logger.Info().Int("records", len(records)).Msg("Jira search completed")

	return c.finish(started, models.SourceAPI, records, 0)
}

// finish is the shared tail of both ingestion paths: classify, report,
// persist.
func (c *collector) finish(started time.Time, source string, records []models.Record, orphans int) (*models.RunSummary, error) {
	statuses := c.classifier.Report(records)

	run := &models.RunSummary{
		RunID:     uuid.NewString(),
		Source:    source,
		Started:   started,
		Completed: time.Now(),
		Records:   len(records),
		Orphans:   orphans,
	}
	for _, st := range statuses {
		switch st.Status {
		case models.StatusSuccess:
			run.Success++
		case models.StatusFailed:
			run.Failed++
		}
	}

	if err := c.reporter.Prepare(); err != nil {
		return nil, err
	}
	if err := c.reporter.WriteTableCSV(records); err != nil {
		return nil, err
	}
	if err := c.reporter.WriteStatusCSV(statuses); err != nil {
		return nil, err
	}
	if err := c.reporter.WriteHTML(statuses); err != nil {
		return nil, err
	}

	c.reporter.RenderTable(os.Stdout, records)
	c.reporter.RenderStatusReport(os.Stdout, statuses)

	if err := c.storage.SaveSnapshot(run, records, statuses); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("run_id", run.RunID).
		Str("source", run.Source).
		Int("records", run.Records).
		Int("success", run.Success).
		Int("failed", run.Failed).
		Msg("snapshot saved")

	return run, nil
}
