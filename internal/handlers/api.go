package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"

	"jira-triage-snapshot/internal/common"
	"jira-triage-snapshot/internal/interfaces"
	"jira-triage-snapshot/internal/models"
)

// APIHandlers contains all API endpoint handlers
type APIHandlers struct {
	config    *common.Config
	storage   interfaces.Storage
	collector interfaces.Collector
	logger    arbor.ILogger
	wsHub     *WebSocketHub
	startTime time.Time
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Build     string    `json:"build"`
	Uptime    float64   `json:"uptime_seconds"`
	Services  struct {
		Database bool `json:"database"`
		Jira     bool `json:"jira"`
	} `json:"services"`
}

// VersionResponse represents build version information
type VersionResponse struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

// StatusResponse represents the snapshot status response
type StatusResponse struct {
	Uptime    float64            `json:"uptime_seconds"`
	RunCount  int                `json:"run_count"`
	LatestRun *models.RunSummary `json:"latest_run,omitempty"`
}

// RunRequest asks for a new snapshot run
type RunRequest struct {
	Source    string `json:"source"`
	ImagePath string `json:"image_path,omitempty"`
}

// RunResponse reports the outcome of a triggered run
type RunResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Run     *models.RunSummary `json:"run,omitempty"`
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(config *common.Config, storage interfaces.Storage, collector interfaces.Collector, logger arbor.ILogger, wsHub *WebSocketHub) *APIHandlers {
	return &APIHandlers{
		config:    config,
		storage:   storage,
		collector: collector,
		logger:    logger,
		wsHub:     wsHub,
		startTime: time.Now(),
	}
}

// HealthHandler returns system health status
func (h *APIHandlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   common.GetVersion(),
		Build:     common.GetBuild(),
		Uptime:    time.Since(h.startTime).Seconds(),
	}

	health.Services.Database = h.testDatabaseConnection()
	health.Services.Jira = h.config.UsesAPI()

	if !health.Services.Database {
		health.Status = "degraded"
	}

	if err := json.NewEncoder(w).Encode(health); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode health response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// VersionHandler returns build version information
func (h *APIHandlers) VersionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	version := VersionResponse{
		Version: common.GetVersion(),
		Build:   common.GetBuild(),
		Commit:  common.GetGitCommit(),
	}

	if err := json.NewEncoder(w).Encode(version); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode version response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// StatusHandler returns the latest run summary and run count
func (h *APIHandlers) StatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := StatusResponse{
		Uptime: time.Since(h.startTime).Seconds(),
	}

	runs, err := h.storage.ListRuns()
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to list runs for status")
	}
	status.RunCount = len(runs)
	if len(runs) > 0 {
		status.LatestRun = runs[0]
	}

	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode status response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// ReportHandler serves the latest HTML status report
func (h *APIHandlers) ReportHandler(w http.ResponseWriter, r *http.Request) {
	reportPath := filepath.Join(h.config.Reports.OutputDir, "jira_status_report.html")

	data, err := os.ReadFile(reportPath)
	if err != nil {
		h.logger.Warn().Err(err).Str("path", reportPath).Msg("No report available")
		http.Error(w, "No report available; trigger a run first", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// RunHandler triggers a snapshot run and broadcasts its outcome
func (h *APIHandlers) RunHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request RunRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(RunResponse{Success: false, Message: "Invalid request payload"})
		return
	}

	if h.wsHub != nil {
		h.wsHub.SendRunUpdate("run_started", nil)
	}

	var run *models.RunSummary
	var err error

	switch request.Source {
	case models.SourceImage:
		if request.ImagePath == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(RunResponse{Success: false, Message: "image_path is required for image runs"})
			return
		}
		run, err = h.collector.CollectFromImage(request.ImagePath)
	case models.SourceAPI, "":
		run, err = h.collector.CollectFromJira()
	default:
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(RunResponse{Success: false, Message: "source must be \"image\" or \"api\""})
		return
	}

	if err != nil {
		h.logger.Error().Err(err).Str("source", request.Source).Msg("Snapshot run failed")
		if h.wsHub != nil {
			h.wsHub.SendRunUpdate("run_failed", nil)
		}
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(RunResponse{Success: false, Message: err.Error()})
		return
	}

	h.logger.Info().Str("run_id", run.RunID).Msg("Snapshot run completed")
	if h.wsHub != nil {
		h.wsHub.SendRunUpdate("run_completed", run)
	}

	json.NewEncoder(w).Encode(RunResponse{Success: true, Run: run})
}

func (h *APIHandlers) testDatabaseConnection() bool {
	_, err := h.storage.LatestRunID()
	return err == nil
}
