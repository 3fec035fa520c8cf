package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"ghgfactors/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Ingest  IngestConfig  `yaml:"ingest" envconfig:"INGEST"`
	Model   ModelConfig   `yaml:"model" envconfig:"MODEL"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/ghgfactors.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// IngestConfig controls workbook ingestion. The workbook path is always
// configuration or flag driven, never hard-coded.
type IngestConfig struct {
	WorkbookPath string `yaml:"workbook_path" envconfig:"WORKBOOK_PATH" default:"data/SupplyChainGHGEmissionFactors.xlsx"`
	FromYear     int    `yaml:"from_year" envconfig:"FROM_YEAR" default:"2010"`
	ToYear       int    `yaml:"to_year" envconfig:"TO_YEAR" default:"2016"`
}

// ModelConfig controls the regression pipeline.
type ModelConfig struct {
	TestFraction float64 `yaml:"test_fraction" envconfig:"TEST_FRACTION" default:"0.2"`
	Seed         int64   `yaml:"seed" envconfig:"SEED" default:"42"`
}

// Load loads configuration from environment variables and an optional
// config file. Values set in the file override environment defaults.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is like Load but reads the given config file path.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("GHG", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays non-zero file values onto the env-derived config.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig

	if fileConfig.Logging.Level != "" {
		merged.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" {
		merged.Logging.Format = fileConfig.Logging.Format
	}
	if fileConfig.Logging.Output != "" {
		merged.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" {
		merged.Logging.FilePath = fileConfig.Logging.FilePath
	}

	if fileConfig.Paths.DataDir != "" {
		merged.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if fileConfig.Paths.ReportsDir != "" {
		merged.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if fileConfig.Paths.LogsDir != "" {
		merged.Paths.LogsDir = fileConfig.Paths.LogsDir
	}

	if fileConfig.Ingest.WorkbookPath != "" {
		merged.Ingest.WorkbookPath = fileConfig.Ingest.WorkbookPath
	}
	if fileConfig.Ingest.FromYear != 0 {
		merged.Ingest.FromYear = fileConfig.Ingest.FromYear
	}
	if fileConfig.Ingest.ToYear != 0 {
		merged.Ingest.ToYear = fileConfig.Ingest.ToYear
	}

	if fileConfig.Model.TestFraction != 0 {
		merged.Model.TestFraction = fileConfig.Model.TestFraction
	}
	if fileConfig.Model.Seed != 0 {
		merged.Model.Seed = fileConfig.Model.Seed
	}

	return merged
}

// validate checks the configuration for invalid values
func (c *Config) validate() error {
	if c.Ingest.FromYear < domain.MinYear || c.Ingest.FromYear > domain.MaxYear {
		return fmt.Errorf("ingest from_year %d outside supported range [%d, %d]",
			c.Ingest.FromYear, domain.MinYear, domain.MaxYear)
	}
	if c.Ingest.ToYear < domain.MinYear || c.Ingest.ToYear > domain.MaxYear {
		return fmt.Errorf("ingest to_year %d outside supported range [%d, %d]",
			c.Ingest.ToYear, domain.MinYear, domain.MaxYear)
	}
	if c.Ingest.FromYear > c.Ingest.ToYear {
		return fmt.Errorf("ingest from_year %d after to_year %d", c.Ingest.FromYear, c.Ingest.ToYear)
	}
	if c.Ingest.WorkbookPath == "" {
		return fmt.Errorf("ingest workbook_path must not be empty")
	}
	if c.Model.TestFraction <= 0 || c.Model.TestFraction >= 1 {
		return fmt.Errorf("model test_fraction %v must be in (0, 1)", c.Model.TestFraction)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	return nil
}

// getConfigFilePath returns the config file path, honoring GHG_CONFIG_FILE
func getConfigFilePath() string {
	if path := os.Getenv("GHG_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
