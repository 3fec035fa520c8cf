package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)

	assert.Equal(t, 2010, cfg.Ingest.FromYear)
	assert.Equal(t, 2016, cfg.Ingest.ToYear)
	assert.Equal(t, "data/SupplyChainGHGEmissionFactors.xlsx", cfg.Ingest.WorkbookPath)

	assert.InDelta(t, 0.2, cfg.Model.TestFraction, 1e-9)
	assert.Equal(t, int64(42), cfg.Model.Seed)
}

func TestLoadFrom_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")

	content := `
logging:
  level: debug
  output: both
ingest:
  workbook_path: /srv/data/factors.xlsx
  from_year: 2014
  to_year: 2016
model:
  test_fraction: 0.3
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := LoadFrom(configFile)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "both", cfg.Logging.Output)
	// Untouched fields keep their defaults.
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.Equal(t, "/srv/data/factors.xlsx", cfg.Ingest.WorkbookPath)
	assert.Equal(t, 2014, cfg.Ingest.FromYear)
	assert.Equal(t, 2016, cfg.Ingest.ToYear)
	assert.InDelta(t, 0.3, cfg.Model.TestFraction, 1e-9)
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 2010, cfg.Ingest.FromYear)
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("logging: [not a map"), 0644))

	_, err := LoadFrom(configFile)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadFrom("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "from year too early",
			mutate:  func(c *Config) { c.Ingest.FromYear = 2009 },
			wantErr: "outside supported range",
		},
		{
			name:    "to year too late",
			mutate:  func(c *Config) { c.Ingest.ToYear = 2017 },
			wantErr: "outside supported range",
		},
		{
			name:    "inverted year range",
			mutate:  func(c *Config) { c.Ingest.FromYear = 2015; c.Ingest.ToYear = 2012 },
			wantErr: "after to_year",
		},
		{
			name:    "empty workbook path",
			mutate:  func(c *Config) { c.Ingest.WorkbookPath = "" },
			wantErr: "workbook_path",
		},
		{
			name:    "test fraction too large",
			mutate:  func(c *Config) { c.Model.TestFraction = 1.0 },
			wantErr: "test_fraction",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNewPathsFrom(t *testing.T) {
	paths := NewPathsFrom("/opt/ghg")

	assert.Equal(t, "/opt/ghg", paths.ExecutableDir)
	assert.Equal(t, filepath.Join("/opt/ghg", "data"), paths.DataDir)
	assert.Equal(t, filepath.Join("/opt/ghg", "data", "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join("/opt/ghg", "data", "reports", "combined", "ghg_factors_combined.csv"), paths.CombinedDataCSV)
	assert.Equal(t, filepath.Join("/opt/ghg", "data", "reports", "yearly", "ghg_factors_2015.csv"), paths.GetYearlyReportPath(2015))
	assert.Equal(t, filepath.Join("/opt/ghg", "logs", "ingest.log"), paths.GetLogPath("ingest.log"))
}

func TestNewPaths_ConfigOverrides(t *testing.T) {
	// Absolute configured directories are used as given, relative ones are
	// resolved against the base directory.
	paths := NewPaths("/opt/ghg", PathsConfig{
		DataDir:    "/srv/ghg-data",
		ReportsDir: "output",
		LogsDir:    "",
	})

	assert.Equal(t, "/srv/ghg-data", paths.DataDir)
	assert.Equal(t, filepath.Join("/opt/ghg", "output"), paths.ReportsDir)
	assert.Equal(t, filepath.Join("/opt/ghg", "output", "combined", "ghg_factors_combined.csv"), paths.CombinedDataCSV)
	assert.Equal(t, filepath.Join("/opt/ghg", "output", "profile", "data_profile.csv"), paths.ProfileCSV)
	assert.Equal(t, filepath.Join("/opt/ghg", "logs"), paths.LogsDir)
}

func TestConfig_ResolvePaths_AppliesPathsSection(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)
	cfg.Paths.ReportsDir = "/srv/ghg-reports"

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	assert.Equal(t, "/srv/ghg-reports", paths.ReportsDir)
	assert.Equal(t, filepath.Join("/srv/ghg-reports", "yearly"), paths.YearlyReportsDir)
	// The default paths section keeps the executable-relative layout.
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "data"), paths.DataDir)
}

func TestResolveLogFilePath(t *testing.T) {
	paths := NewPathsFrom("/opt/ghg")

	// Relative log paths are rehomed under the logs directory.
	assert.Equal(t, filepath.Join("/opt/ghg", "logs", "ghgfactors.log"),
		ResolveLogFilePath("logs/ghgfactors.log", paths))
	assert.Equal(t, filepath.Join("/opt/ghg", "logs", "ingest.log"),
		ResolveLogFilePath("ingest.log", paths))

	// Absolute paths are respected.
	assert.Equal(t, "/var/log/ghg.log", ResolveLogFilePath("/var/log/ghg.log", paths))
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := NewPathsFrom(base)

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{
		paths.DataDir,
		paths.ReportsDir,
		paths.CombinedReportsDir,
		paths.YearlyReportsDir,
		paths.ProfileReportsDir,
		paths.LogsDir,
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}
}
