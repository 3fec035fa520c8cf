package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"

	"ghgfactors/pkg/contracts/domain"
)

// WriteCombined writes the combined dataset to the given path, creating
// parent directories as needed. Row order is preserved as given.
func (w *CSVWriter) WriteCombined(records []domain.FactorRecord, filePath string) error {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create combined CSV: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&records, file); err != nil {
		return fmt.Errorf("failed to marshal combined CSV: %w", err)
	}

	slog.Info("Saved combined dataset",
		slog.String("path", fullPath),
		slog.Int("record_count", len(records)))

	return nil
}

// WriteYearly writes one dataset file per year into the given directory,
// named ghg_factors_<year>.csv. Rows keep their combined-table order.
func (w *CSVWriter) WriteYearly(records []domain.FactorRecord, dir string) error {
	fullDir := w.resolvePath(dir)
	if err := os.MkdirAll(fullDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	byYear := make(map[int][]domain.FactorRecord)
	for _, record := range records {
		byYear[record.Year] = append(byYear[record.Year], record)
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	for _, year := range years {
		path := filepath.Join(fullDir, fmt.Sprintf("ghg_factors_%d.csv", year))
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create yearly CSV for %d: %w", year, err)
		}

		yearRecords := byYear[year]
		if err := gocsv.MarshalFile(&yearRecords, file); err != nil {
			file.Close()
			return fmt.Errorf("failed to marshal yearly CSV for %d: %w", year, err)
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to close yearly CSV for %d: %w", year, err)
		}

		slog.Debug("Saved yearly dataset",
			slog.Int("year", year),
			slog.String("path", path),
			slog.Int("record_count", len(yearRecords)))
	}

	return nil
}

// LoadCombined reads a previously written combined dataset.
func LoadCombined(filePath string) ([]domain.FactorRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open combined CSV: %w", err)
	}
	defer file.Close()

	var records []domain.FactorRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal combined CSV: %w", err)
	}

	return records, nil
}

// YearsPresent returns the sorted distinct years found in the records.
func YearsPresent(records []domain.FactorRecord) []int {
	seen := make(map[int]bool)
	for _, record := range records {
		seen[record.Year] = true
	}

	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}
