package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Collector  CollectorConfig  `toml:"collector"`
	Jira       JiraConfig       `toml:"jira"`
	OCR        OCRConfig        `toml:"ocr"`
	Table      TableConfig      `toml:"table"`
	Classifier ClassifierConfig `toml:"classifier"`
	Reports    ReportsConfig    `toml:"reports"`
	Storage    StorageConfig    `toml:"storage"`
	Logging    LoggingConfig    `toml:"logging"`
}

type CollectorConfig struct {
	Name        string `toml:"name"`
	Environment string `toml:"environment"`
	Port        int    `toml:"port"`
}

type JiraConfig struct {
	BaseURL        string `toml:"base_url"`
	Username       string `toml:"username"`
	APIToken       string `toml:"api_token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	JQL            string `toml:"jql"`
	MaxResults     int    `toml:"max_results"`
}

type OCRConfig struct {
	Language string `toml:"language"`
	// PageSegMode is the Tesseract page segmentation mode. 6 treats the
	// screenshot as a single uniform block of text, which suits table crops.
	PageSegMode int `toml:"page_seg_mode"`
}

type TableConfig struct {
	// RowTolerance is the vertical distance in pixels within which a token
	// still belongs to the current row.
	RowTolerance int `toml:"row_tolerance"`
	// ColumnGapThreshold is the horizontal gap in pixels that separates
	// two table columns.
	ColumnGapThreshold int `toml:"column_gap_threshold"`
}

type ClassifierConfig struct {
	// ConflictPolicy picks the winner when a Labels field carries both the
	// success and the failed marker: "failed" or "success".
	ConflictPolicy string `toml:"conflict_policy"`
}

type ReportsConfig struct {
	OutputDir string `toml:"output_dir"`
	// Clean removes the report directory before each run.
	Clean bool `toml:"clean"`
}

type StorageConfig struct {
	DatabasePath  string `toml:"database_path"`
	RetentionDays int    `toml:"retention_days"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Output     string `toml:"output"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
}

func DefaultConfig() *Config {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)
	execName := filepath.Base(execPath)
	execName = execName[:len(execName)-len(filepath.Ext(execName))]

	defaultDBPath := filepath.Join(execDir, "data", execName+".db")

	return &Config{
		Collector: CollectorConfig{
			Name:        execName,
			Environment: "development",
			Port:        8080,
		},
		Jira: JiraConfig{
			BaseURL:        "https://your-company.atlassian.net",
			TimeoutSeconds: 30,
			JQL: "labels in (oneview_triagex_started,oneview_triagex_success,oneview_triagex_failed)" +
				" AND created >= -3d ORDER BY created DESC",
			MaxResults: 100,
		},
		OCR: OCRConfig{
			Language:    "eng",
			PageSegMode: 6,
		},
		Table: TableConfig{
			RowTolerance:       15,
			ColumnGapThreshold: 40,
		},
		Classifier: ClassifierConfig{
			ConflictPolicy: "failed",
		},
		Reports: ReportsConfig{
			OutputDir: "reports",
			Clean:     true,
		},
		Storage: StorageConfig{
			DatabasePath:  defaultDBPath,
			RetentionDays: 90,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "both",
			MaxSize:    100,
			MaxBackups: 3,
		},
	}
}

func LoadConfig(configFile string) (*Config, error) {
	config := DefaultConfig()

	if configFile == "" {
		// Auto-detect config file next to the executable, then in the
		// working directory
		execPath, _ := os.Executable()
		execDir := filepath.Dir(execPath)
		execName := filepath.Base(execPath)
		execName = execName[:len(execName)-len(filepath.Ext(execName))]

		possiblePaths := []string{
			filepath.Join(execDir, execName+".toml"),
			filepath.Join(execDir, "config.toml"),
			"config.toml",
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if jiraURL := os.Getenv("JIRA_URL"); jiraURL != "" {
		config.Jira.BaseURL = jiraURL
	}
	if apiToken := os.Getenv("JIRA_API_TOKEN"); apiToken != "" {
		config.Jira.APIToken = apiToken
	}
	if username := os.Getenv("JIRA_USERNAME"); username != "" {
		config.Jira.Username = username
	}
	if maxResults := os.Getenv("MAX_RESULTS"); maxResults != "" {
		if n, err := strconv.Atoi(maxResults); err == nil {
			config.Jira.MaxResults = n
		}
	}

	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		config.Storage.DatabasePath = dbPath
	}
	if reportsDir := os.Getenv("REPORTS_DIR"); reportsDir != "" {
		config.Reports.OutputDir = reportsDir
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.Logging.Level = logLevel
	}
	if logOutput := os.Getenv("LOG_OUTPUT"); logOutput != "" {
		config.Logging.Output = logOutput
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		if portNum, err := strconv.Atoi(port); err == nil {
			config.Collector.Port = portNum
		}
	}
}

func (c *Config) Validate() error {
	if c.Jira.BaseURL == "" {
		return fmt.Errorf("jira base_url is required")
	}

	if c.Jira.MaxResults <= 0 {
		return fmt.Errorf("jira max_results must be positive, got %d", c.Jira.MaxResults)
	}

	if c.Table.RowTolerance <= 0 {
		return fmt.Errorf("table row_tolerance must be positive, got %d", c.Table.RowTolerance)
	}

	if c.Table.ColumnGapThreshold <= 0 {
		return fmt.Errorf("table column_gap_threshold must be positive, got %d", c.Table.ColumnGapThreshold)
	}

	if c.Classifier.ConflictPolicy != "failed" && c.Classifier.ConflictPolicy != "success" {
		return fmt.Errorf("invalid classifier conflict_policy: %s", c.Classifier.ConflictPolicy)
	}

	if c.Reports.OutputDir == "" {
		return fmt.Errorf("reports output_dir is required")
	}

	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage database_path is required")
	}

	if c.Collector.Port <= 0 {
		c.Collector.Port = 8080
	}

	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLogLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validOutputs := []string{"console", "file", "both"}
	validOutput := false
	for _, output := range validOutputs {
		if c.Logging.Output == output {
			validOutput = true
			break
		}
	}
	if !validOutput {
		return fmt.Errorf("invalid log output: %s", c.Logging.Output)
	}

	return nil
}

// UsesAPI reports whether the Jira REST ingestion path is configured.
func (c *Config) UsesAPI() bool {
	return c.Jira.APIToken != ""
}

func (c *Config) IsProduction() bool {
	return c.Collector.Environment == "production"
}
