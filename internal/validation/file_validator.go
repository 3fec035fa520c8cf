package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileValidator provides common file validation functions for the CLIs
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateWorkbookFile checks that the workbook exists, is a regular file,
// and carries an .xlsx extension.
func (v *FileValidator) ValidateWorkbookFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Workbook file does not exist",
			slog.String("path", path))
		return fmt.Errorf("workbook %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat workbook file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat workbook %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Workbook path is a directory",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a workbook", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		v.logger.Error("Workbook file has unexpected extension",
			slog.String("path", path),
			slog.String("extension", filepath.Ext(path)))
		return fmt.Errorf("workbook %s is not an .xlsx file", path)
	}

	v.logger.Info("Workbook file validated",
		slog.String("path", path),
		slog.Int64("size_bytes", info.Size()))

	return nil
}

// ValidateInputFile checks that an input file exists and is readable.
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("input file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat input file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return nil
}

// ValidateOutputDirectory ensures the output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify we can write to it
	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	os.Remove(testFile)

	return nil
}
