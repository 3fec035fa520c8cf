package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"ghgfactors/internal/config"
	"ghgfactors/internal/exporter"
	"ghgfactors/internal/infrastructure"
	"ghgfactors/internal/regression"
	"ghgfactors/internal/validation"
)

func main() {
	dataPath := flag.String("data", "", "path to the combined dataset CSV (defaults to data/reports/combined relative to executable)")
	testFrac := flag.Float64("test-frac", 0, "held-out fraction of rows for evaluation (defaults to the configured value)")
	seed := flag.Int64("seed", 0, "shuffle seed for the train/test split (defaults to the configured value)")
	flag.Parse()

	// .env is optional; missing files are fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Flag overrides
	if *testFrac != 0 {
		cfg.Model.TestFraction = *testFrac
	}
	if *seed != 0 {
		cfg.Model.Seed = *seed
	}
	if cfg.Model.TestFraction <= 0 || cfg.Model.TestFraction >= 1 {
		slog.Error("Invalid test fraction", slog.Float64("test_fraction", cfg.Model.TestFraction))
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

	combinedCSV := *dataPath
	if combinedCSV == "" {
		combinedCSV = paths.CombinedDataCSV
	}

	logger.InfoContext(ctx, "starting regression run",
		slog.String("data", combinedCSV),
		slog.Float64("test_fraction", cfg.Model.TestFraction),
		slog.Int64("seed", cfg.Model.Seed))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputFile(combinedCSV); err != nil {
		logger.ErrorContext(ctx, "dataset validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	records, err := exporter.LoadCombined(combinedCSV)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load combined dataset", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.InfoContext(ctx, "loaded combined dataset", slog.Int("record_count", len(records)))

	dataset, err := regression.Encode(records)
	if err != nil {
		logger.ErrorContext(ctx, "failed to encode features", slog.String("error", err.Error()))
		os.Exit(1)
	}

	train, test, err := dataset.Split(cfg.Model.TestFraction, cfg.Model.Seed)
	if err != nil {
		logger.ErrorContext(ctx, "failed to split dataset", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.InfoContext(ctx, "split dataset",
		slog.Int("train_rows", train.Rows()),
		slog.Int("test_rows", test.Rows()),
		slog.Int("feature_count", len(dataset.Features)))

	// Standardize on training statistics only
	scaler := regression.FitScaler(train.X)
	trainX, err := scaler.Transform(train.X)
	if err != nil {
		logger.ErrorContext(ctx, "failed to scale training features", slog.String("error", err.Error()))
		os.Exit(1)
	}
	testX, err := scaler.Transform(test.X)
	if err != nil {
		logger.ErrorContext(ctx, "failed to scale test features", slog.String("error", err.Error()))
		os.Exit(1)
	}

	model, err := regression.Fit(trainX, train.Y, train.Features)
	if err != nil {
		logger.ErrorContext(ctx, "failed to fit model", slog.String("error", err.Error()))
		os.Exit(1)
	}

	predictions, err := model.Predict(testX)
	if err != nil {
		logger.ErrorContext(ctx, "failed to predict held-out rows", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metrics, err := regression.Evaluate(predictions, test.Y)
	if err != nil {
		logger.ErrorContext(ctx, "failed to evaluate predictions", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "regression complete",
		slog.Float64("rmse", metrics.RMSE),
		slog.Float64("mae", metrics.MAE),
		slog.Float64("r2", metrics.R2))

	printReport(model, metrics, train.Rows(), test.Rows())
}

// printReport writes the fitted coefficients and held-out metrics to stdout.
func printReport(model *regression.Model, metrics regression.Metrics, trainRows, testRows int) {
	fmt.Printf("Fitted on %d rows, evaluated on %d held-out rows\n\n", trainRows, testRows)

	fmt.Println("Coefficients (standardized features):")
	for _, coefficient := range model.Coefficients() {
		fmt.Printf("  %-40s %12.6f\n", coefficient.Feature, coefficient.Weight)
	}

	fmt.Println("\nHeld-out metrics:")
	fmt.Printf("  %-6s %12.6f\n", "RMSE", metrics.RMSE)
	fmt.Printf("  %-6s %12.6f\n", "MAE", metrics.MAE)
	fmt.Printf("  %-6s %12.6f\n", "R2", metrics.R2)
}
