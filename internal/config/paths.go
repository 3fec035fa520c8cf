package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file paths in the application.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	LogsDir       string

	// Report subdirectories
	CombinedReportsDir string
	YearlyReportsDir   string
	ProfileReportsDir  string

	// Well-known report files
	CombinedDataCSV string
	ProfileCSV      string
}

// ResolvePaths returns the executable-relative path set with this
// configuration's paths section applied, so GHG_PATHS_* variables and a
// yaml paths block relocate the data, reports, and logs directories. All
// paths are anchored to the executable directory, never the current working
// directory, so the tools behave the same regardless of where they are
// launched from.
func (c *Config) ResolvePaths() (*Paths, error) {
	exeDir, err := executableDir()
	if err != nil {
		return nil, err
	}
	return NewPaths(exeDir, c.Paths), nil
}

// executableDir locates the directory of the running binary, resolving
// symlinks to the actual executable location.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// NewPathsFrom builds the default path set rooted at the given base
// directory. Directory structure:
//
//	<base>/
//	  ├── data/
//	  │   └── reports/
//	  │       ├── combined/   (combined dataset CSV)
//	  │       ├── yearly/     (per-year dataset CSVs)
//	  │       └── profile/    (data-profile report)
//	  └── logs/
func NewPathsFrom(baseDir string) *Paths {
	return NewPaths(baseDir, PathsConfig{})
}

// NewPaths builds the path set rooted at baseDir with the configured
// directory layout applied. Absolute configured directories are used as
// given; relative ones are resolved against baseDir, and empty ones fall
// back to the default layout.
func NewPaths(baseDir string, cfg PathsConfig) *Paths {
	dataDir := resolveDir(baseDir, cfg.DataDir, "data")
	reportsDir := resolveDir(baseDir, cfg.ReportsDir, filepath.Join("data", "reports"))
	logsDir := resolveDir(baseDir, cfg.LogsDir, "logs")

	combinedDir := filepath.Join(reportsDir, "combined")
	yearlyDir := filepath.Join(reportsDir, "yearly")
	profileDir := filepath.Join(reportsDir, "profile")

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		ReportsDir:    reportsDir,
		LogsDir:       logsDir,

		CombinedReportsDir: combinedDir,
		YearlyReportsDir:   yearlyDir,
		ProfileReportsDir:  profileDir,

		CombinedDataCSV: filepath.Join(combinedDir, "ghg_factors_combined.csv"),
		ProfileCSV:      filepath.Join(profileDir, "data_profile.csv"),
	}
}

// resolveDir resolves one configured directory against the base directory.
func resolveDir(baseDir, configured, fallback string) string {
	if configured == "" {
		configured = fallback
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(baseDir, configured)
}

// ResolveLogFilePath rewrites a relative log file path to live under the
// logs directory, so file logs land next to the other outputs instead of in
// the current working directory. Absolute paths are respected as given.
func ResolveLogFilePath(filePath string, paths *Paths) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return paths.GetLogPath(filepath.Base(filePath))
}

// EnsureDirectories creates all required directories if they do not exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.ReportsDir,
		p.CombinedReportsDir,
		p.YearlyReportsDir,
		p.ProfileReportsDir,
		p.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetReportPath returns the full path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetYearlyReportPath returns the per-year dataset path for the given year
func (p *Paths) GetYearlyReportPath(year int) string {
	return filepath.Join(p.YearlyReportsDir, fmt.Sprintf("ghg_factors_%d.csv", year))
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
