package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Collector.Port)
	assert.Equal(t, 15, cfg.Table.RowTolerance)
	assert.Equal(t, 40, cfg.Table.ColumnGapThreshold)
	assert.Equal(t, "failed", cfg.Classifier.ConflictPolicy)
	assert.Equal(t, "reports", cfg.Reports.OutputDir)
	assert.True(t, cfg.Reports.Clean)
	assert.Equal(t, 6, cfg.OCR.PageSegMode)
	assert.Equal(t, 100, cfg.Jira.MaxResults)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	content := `
[jira]
base_url = "https://test.atlassian.net"
max_results = 25

[table]
row_tolerance = 20

[classifier]
conflict_policy = "success"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "https://test.atlassian.net", cfg.Jira.BaseURL)
	assert.Equal(t, 25, cfg.Jira.MaxResults)
	assert.Equal(t, 20, cfg.Table.RowTolerance)
	// Unset keys keep their defaults.
	assert.Equal(t, 40, cfg.Table.ColumnGapThreshold)
	assert.Equal(t, "success", cfg.Classifier.ConflictPolicy)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.toml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JIRA_URL", "https://env.atlassian.net")
	t.Setenv("JIRA_API_TOKEN", "secret")
	t.Setenv("MAX_RESULTS", "7")
	t.Setenv("REPORTS_DIR", "/tmp/out")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "https://env.atlassian.net", cfg.Jira.BaseURL)
	assert.Equal(t, "secret", cfg.Jira.APIToken)
	assert.Equal(t, 7, cfg.Jira.MaxResults)
	assert.Equal(t, "/tmp/out", cfg.Reports.OutputDir)
	assert.True(t, cfg.UsesAPI())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Jira.BaseURL = "" }},
		{"zero max results", func(c *Config) { c.Jira.MaxResults = 0 }},
		{"zero row tolerance", func(c *Config) { c.Table.RowTolerance = 0 }},
		{"zero gap threshold", func(c *Config) { c.Table.ColumnGapThreshold = 0 }},
		{"bad conflict policy", func(c *Config) { c.Classifier.ConflictPolicy = "maybe" }},
		{"empty reports dir", func(c *Config) { c.Reports.OutputDir = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log output", func(c *Config) { c.Logging.Output = "syslog" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestUsesAPI(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.UsesAPI())

	cfg.Jira.APIToken = "token"
	assert.True(t, cfg.UsesAPI())
}
