package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"ghgfactors/internal/config"
	"ghgfactors/internal/dataprocessing"
	"ghgfactors/internal/exporter"
	"ghgfactors/internal/infrastructure"
	"ghgfactors/internal/validation"
	"ghgfactors/pkg/contracts/domain"
)

func main() {
	workbook := flag.String("workbook", "", "path to the emission-factor workbook (defaults to the configured path)")
	outDir := flag.String("out", "", "output directory for CSV reports (defaults to data/reports relative to executable)")
	fromYear := flag.Int("from", 0, "first year to ingest (defaults to the configured range)")
	toYear := flag.Int("to", 0, "last year to ingest (defaults to the configured range)")
	fullRework := flag.Bool("full", false, "force full re-ingestion, ignoring the existing combined dataset")
	flag.Parse()

	// .env is optional; missing files are fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Flag overrides
	if *workbook != "" {
		cfg.Ingest.WorkbookPath = *workbook
	}
	if *fromYear != 0 {
		cfg.Ingest.FromYear = *fromYear
	}
	if *toYear != 0 {
		cfg.Ingest.ToYear = *toYear
	}
	if cfg.Ingest.FromYear > cfg.Ingest.ToYear {
		slog.Error("Invalid year range",
			slog.Int("from", cfg.Ingest.FromYear),
			slog.Int("to", cfg.Ingest.ToYear))
		os.Exit(1)
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	// File logs belong under the logs directory, not the working directory
	cfg.Logging.FilePath = config.ResolveLogFilePath(cfg.Logging.FilePath, paths)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())

	// Resolve output locations
	reportsDir := paths.ReportsDir
	if *outDir != "" {
		reportsDir, err = filepath.Abs(*outDir)
		if err != nil {
			logger.Error("Failed to resolve output directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	combinedCSV := filepath.Join(reportsDir, "combined", "ghg_factors_combined.csv")
	yearlyDir := filepath.Join(reportsDir, "yearly")
	profileCSV := filepath.Join(reportsDir, "profile", "data_profile.csv")

	logger.InfoContext(ctx, "starting emission-factor ingestion",
		slog.String("workbook", cfg.Ingest.WorkbookPath),
		slog.Int("from_year", cfg.Ingest.FromYear),
		slog.Int("to_year", cfg.Ingest.ToYear),
		slog.String("reports_dir", reportsDir),
		slog.Bool("full_rework", *fullRework))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateWorkbookFile(cfg.Ingest.WorkbookPath); err != nil {
		logger.ErrorContext(ctx, "workbook validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(reportsDir); err != nil {
		logger.ErrorContext(ctx, "output directory validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	requestedYears := dataprocessing.YearRange(cfg.Ingest.FromYear, cfg.Ingest.ToYear)

	// Smart update: years already in the combined dataset are not re-read
	var existingRecords []domain.FactorRecord
	yearsToIngest := requestedYears
	if !*fullRework {
		yearsToIngest, existingRecords = determineYearsToIngest(requestedYears, combinedCSV, logger)
	}

	logger.InfoContext(ctx, "ingestion plan",
		slog.Int("requested_years", len(requestedYears)),
		slog.Int("years_to_ingest", len(yearsToIngest)),
		slog.Int("existing_records", len(existingRecords)))

	result := &dataprocessing.Result{}
	if len(yearsToIngest) > 0 {
		bar := progressbar.Default(int64(len(yearsToIngest)), "ingesting years")
		ingestor := dataprocessing.NewIngestor(logger)
		result, err = ingestor.IngestWorkbook(ctx, cfg.Ingest.WorkbookPath, yearsToIngest, func(year int) {
			_ = bar.Add(1)
		})
		if err != nil {
			logger.ErrorContext(ctx, "failed to open workbook", slog.String("error", err.Error()))
			os.Exit(1)
		}
		_ = bar.Finish()
	}

	for _, failure := range result.Skipped {
		logger.WarnContext(ctx, "year skipped",
			slog.Int("year", failure.Year),
			slog.String("error", failure.Err.Error()))
	}

	allRecords := append(existingRecords, result.Records...)
	if len(allRecords) == 0 {
		logger.ErrorContext(ctx, "no rows ingested from any requested year")
		os.Exit(1)
	}

	// Restore the canonical row order after merging: commodity rows then
	// industry rows, per year, in year order. The stable sort preserves
	// within-sheet row order.
	sort.SliceStable(allRecords, func(i, j int) bool {
		if allRecords[i].Year != allRecords[j].Year {
			return allRecords[i].Year < allRecords[j].Year
		}
		return allRecords[i].Source < allRecords[j].Source
	})

	// Report, but do not fail on, rows violating the combined-schema rules
	recordValidator := validation.NewRecordValidator(logger)
	if failures := recordValidator.ValidateAll(allRecords); len(failures) > 0 {
		logger.WarnContext(ctx, "records failed validation",
			slog.Int("failed_records", len(failures)),
			slog.Int("total_records", len(allRecords)))
	}

	profiler := dataprocessing.NewProfiler(logger)
	profile := profiler.Profile(ctx, allRecords)

	writer := exporter.NewCSVWriter(paths)
	if err := writer.WriteCombined(allRecords, combinedCSV); err != nil {
		logger.ErrorContext(ctx, "failed to write combined dataset", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := writer.WriteYearly(allRecords, yearlyDir); err != nil {
		logger.ErrorContext(ctx, "failed to write yearly datasets", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := writer.WriteSimpleCSV(profileCSV, profile.ReportHeaders(), profile.ReportRows()); err != nil {
		logger.ErrorContext(ctx, "failed to write profile report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "ingestion complete",
		slog.Int("total_records", len(allRecords)),
		slog.Int("years_ingested", len(result.Years)),
		slog.Int("years_skipped", len(result.Skipped)),
		slog.String("combined_csv", combinedCSV))

	fmt.Printf("Ingested %d records across %d years (%d skipped)\n",
		len(allRecords), len(exporter.YearsPresent(allRecords)), len(result.Skipped))
}

// determineYearsToIngest loads the existing combined dataset, if any, and
// removes its years from the requested set.
func determineYearsToIngest(requestedYears []int, combinedCSV string, logger *slog.Logger) ([]int, []domain.FactorRecord) {
	if _, err := os.Stat(combinedCSV); err != nil {
		return requestedYears, nil
	}

	existingRecords, err := exporter.LoadCombined(combinedCSV)
	if err != nil {
		logger.Warn("Could not load existing combined dataset, re-ingesting everything",
			slog.String("path", combinedCSV),
			slog.String("error", err.Error()))
		return requestedYears, nil
	}

	existingYears := make(map[int]bool)
	for _, year := range exporter.YearsPresent(existingRecords) {
		existingYears[year] = true
	}

	var yearsToIngest []int
	for _, year := range requestedYears {
		if existingYears[year] {
			logger.Info("Year already present in combined dataset", slog.Int("year", year))
			continue
		}
		yearsToIngest = append(yearsToIngest, year)
	}

	return yearsToIngest, existingRecords
}
