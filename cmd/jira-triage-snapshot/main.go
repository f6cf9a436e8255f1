package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ternarybob/arbor"

	"jira-triage-snapshot/internal/common"
	"jira-triage-snapshot/internal/interfaces"
	"jira-triage-snapshot/internal/services"
)

const appName = "jira-triage-snapshot"

func main() {
	var (
		configPath     = flag.String("config", "", "Path to configuration file")
		mode           = flag.String("mode", "dev", "Environment mode: 'dev', 'development', 'prod', or 'production'")
		imagePath      = flag.String("image", "", "Path to a Jira screenshot to reconstruct")
		serve          = flag.Bool("serve", false, "Run the HTTP server instead of a one-shot snapshot")
		quiet          = flag.Bool("quiet", false, "Suppress banner output")
		version        = flag.Bool("version", false, "Show version information")
		help           = flag.Bool("help", false, "Show help message")
		validateConfig = flag.Bool("validate", false, "Validate configuration file and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s (commit: %s)\n", appName, common.GetFullVersion(), common.GetGitCommit())
		os.Exit(0)
	}

	if *help {
		showHelp()
		os.Exit(0)
	}

	environment := parseMode(*mode)

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	cfg.Collector.Environment = environment

	if *validateConfig {
		fmt.Println("Configuration is valid")
		os.Exit(0)
	}

	if err := common.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger := common.GetLogger()

	logger.Info().
		Str("version", common.GetVersion()).
		Str("build", common.GetBuild()).
		Str("environment", environment).
		Msg("Starting Jira Triage Snapshot")

	if !*quiet {
		runMode := "Snapshot"
		if *serve {
			runMode = "Server"
		}
		common.PrintBanner(appName, environment, runMode, common.GetLogFilePath())
	}

	storage, err := services.NewStorage(&cfg.Storage)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize storage")
		os.Exit(1)
	}

	collector, err := services.NewCollector(cfg, storage, logger)
	if err != nil {
		storage.Close()
		logger.Error().Err(err).Msg("Failed to initialize collector")
		os.Exit(1)
	}
	defer collector.Close()

	if *serve {
		runServerMode(cfg, storage, collector, logger)
		logger.Info().Msg("Jira Triage Snapshot shutdown complete")
		return
	}

	if err := runSnapshot(cfg, collector, *imagePath); err != nil {
		logger.Error().Err(err).Msg("Snapshot run failed")
		common.PrintError(fmt.Sprintf("Snapshot failed: %v", err))
		os.Exit(1)
	}

	common.PrintSuccess(fmt.Sprintf("Reports written to %s", cfg.Reports.OutputDir))
}

// runSnapshot performs one collection: from a screenshot when -image is
// given, otherwise from the Jira API.
func runSnapshot(cfg *common.Config, collector interfaces.Collector, imagePath string) error {
	if imagePath != "" {
		_, err := collector.CollectFromImage(imagePath)
		return err
	}

	if !cfg.UsesAPI() {
		return common.NewConfigurationError("no_source",
			"no input source: pass -image <path> or configure a Jira api_token")
	}

	_, err := collector.CollectFromJira()
	return err
}

func runServerMode(cfg *common.Config, storage interfaces.Storage, collector interfaces.Collector, logger arbor.ILogger) {
	logger.Info().Msg("Starting in server mode")

	webServer, err := services.NewWebServer(cfg, storage, collector, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create web server")
		return
	}

	ctx := context.Background()
	if err := webServer.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to start web server")
		return
	}

	logger.Info().
		Int("port", cfg.Collector.Port).
		Msg("Web server started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info().Msg("Server running - press Ctrl+C to stop")

	<-sigChan
	logger.Info().Msg("Shutdown signal received")

	if err := webServer.Stop(); err != nil {
		logger.Error().Err(err).Msg("Error stopping web server")
	}

	logger.Info().Msg("Server mode shutdown complete")
}

func parseMode(mode string) string {
	mode = strings.ToLower(mode)
	switch mode {
	case "prod", "production":
		return "production"
	case "dev", "development":
		return "development"
	default:
		return "development"
	}
}

func showHelp() {
	fmt.Printf("%s v%s - Jira Triage Status Snapshot\n\n", appName, common.GetVersion())
	fmt.Println("Usage:")
	fmt.Printf("  %s [flags]\n\n", os.Args[0])
	fmt.Println("Flags:")
	fmt.Println("  -image string       Path to a Jira screenshot to reconstruct (OCR build required)")
	fmt.Println("  -serve              Run the HTTP server instead of a one-shot snapshot")
	fmt.Println("  -mode string        Environment mode: 'dev', 'development', 'prod', or 'production' (default \"dev\")")
	fmt.Println("  -config string      Configuration file path")
	fmt.Println("  -quiet              Suppress banner output")
	fmt.Println("  -version            Show version information")
	fmt.Println("  -help               Show help message")
	fmt.Println("  -validate           Validate configuration file and exit")
	fmt.Println("\nExamples:")
	fmt.Printf("  %s -image board.png                 # Rebuild the table from a screenshot\n", os.Args[0])
	fmt.Printf("  %s                                  # Fetch issues via the Jira API (JIRA_API_TOKEN)\n", os.Args[0])
	fmt.Printf("  %s -serve                           # Expose the latest snapshot over HTTP\n", os.Args[0])
	fmt.Println("\nNote: image mode needs a binary built with -tags ocr and Tesseract installed.")
}
