package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"jira-triage-snapshot/internal/common"
	"jira-triage-snapshot/internal/handlers"
	"jira-triage-snapshot/internal/interfaces"
	"jira-triage-snapshot/internal/middleware"
)

// webServer exposes the latest snapshot and a run trigger over HTTP
type webServer struct {
	config  *common.Config
	server  *http.Server
	logger  arbor.ILogger
	wsHub   *handlers.WebSocketHub
	running bool
}

// NewWebServer creates the serve-mode HTTP server.
func NewWebServer(cfg *common.Config, storage interfaces.Storage, collector interfaces.Collector, logger arbor.ILogger) (interfaces.WebService, error) {
	mux := http.NewServeMux()

	wsHub := handlers.NewWebSocketHub(logger)
	apiHandlers := handlers.NewAPIHandlers(cfg, storage, collector, logger, wsHub)

	ws := &webServer{
		config: cfg,
		logger: logger,
		wsHub:  wsHub,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Collector.Port),
			Handler: mux,
		},
	}

	logMiddleware := middleware.Logging(logger)
	corsMiddleware := middleware.CORS

	mux.HandleFunc("/health", logMiddleware(corsMiddleware(apiHandlers.HealthHandler)))
	mux.HandleFunc("/version", logMiddleware(corsMiddleware(apiHandlers.VersionHandler)))
	mux.HandleFunc("/status", logMiddleware(corsMiddleware(apiHandlers.StatusHandler)))
	mux.HandleFunc("/report", logMiddleware(corsMiddleware(apiHandlers.ReportHandler)))
	mux.HandleFunc("/api/run", logMiddleware(corsMiddleware(apiHandlers.RunHandler)))

	mux.HandleFunc("/ws", corsMiddleware(wsHub.WebSocketHandler))

	return ws, nil
}

// Start starts the web server
func (ws *webServer) Start(ctx context.Context) error {
	ws.running = true

	go func() {
		ws.logger.Info().Int("port", ws.config.Collector.Port).Msg("Starting web server")
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ws.logger.Error().Err(err).Msg("Web server error")
		}
	}()
	return nil
}

// Stop stops the web server
func (ws *webServer) Stop() error {
	ws.running = false

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws.logger.Info().Msg("Shutting down web server")
	return ws.server.Shutdown(ctx)
}

// IsRunning returns true if the web server is running
func (ws *webServer) IsRunning() bool {
	return ws.running
}
