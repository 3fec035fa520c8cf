package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"ghgfactors/pkg/contracts/domain"
)

// YearFailure records one year that could not be ingested.
type YearFailure struct {
	Year int
	Err  error
}

// Result is the explicit accumulator for an ingestion run. Rows appear in
// append order: commodity rows then industry rows, per year, in year order.
type Result struct {
	Records []domain.FactorRecord
	Years   []int
	Skipped []YearFailure
}

// RowCount returns the number of rows in the combined table.
func (r *Result) RowCount() int {
	return len(r.Records)
}

// Ingestor runs the year-wise sheet normalization loop.
type Ingestor struct {
	logger *slog.Logger
}

// NewIngestor creates an ingestor. A nil logger falls back to slog.Default.
func NewIngestor(logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{logger: logger}
}

// IngestWorkbook opens the workbook at the given path and ingests the
// requested years. Opening failures are fatal; per-year failures are not.
func (ing *Ingestor) IngestWorkbook(ctx context.Context, workbookPath string, years []int, progress func(year int)) (*Result, error) {
	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", workbookPath, err)
	}
	defer f.Close()

	return ing.IngestYears(ctx, f, years, progress), nil
}

// IngestYears reads both detail sheets for each requested year from an open
// workbook and appends their normalized rows to the result. A failure on
// either sheet of a year skips that year entirely: the error is logged,
// neither of its sheets contributes rows, and processing continues with the
// next year, so partial results for other years are preserved.
func (ing *Ingestor) IngestYears(ctx context.Context, f *excelize.File, years []int, progress func(year int)) *Result {
	result := &Result{}

	for _, year := range years {
		commodity, err := ParseSheet(f, year, domain.SourceCommodity)
		if err != nil {
			ing.skipYear(ctx, result, year, err)
			reportProgress(progress, year)
			continue
		}

		industry, err := ParseSheet(f, year, domain.SourceIndustry)
		if err != nil {
			ing.skipYear(ctx, result, year, err)
			reportProgress(progress, year)
			continue
		}

		result.Records = append(result.Records, commodity...)
		result.Records = append(result.Records, industry...)
		result.Years = append(result.Years, year)

		ing.logger.InfoContext(ctx, "year ingested",
			slog.Int("year", year),
			slog.Int("commodity_rows", len(commodity)),
			slog.Int("industry_rows", len(industry)))

		reportProgress(progress, year)
	}

	ing.logger.InfoContext(ctx, "ingestion complete",
		slog.Int("total_rows", result.RowCount()),
		slog.Int("years_ingested", len(result.Years)),
		slog.Int("years_skipped", len(result.Skipped)))

	return result
}

// skipYear records a per-year failure and logs the diagnostic.
func (ing *Ingestor) skipYear(ctx context.Context, result *Result, year int, err error) {
	result.Skipped = append(result.Skipped, YearFailure{Year: year, Err: err})
	ing.logger.ErrorContext(ctx, "skipping year after ingestion failure",
		slog.Int("year", year),
		slog.String("error", err.Error()))
}

func reportProgress(progress func(year int), year int) {
	if progress != nil {
		progress(year)
	}
}

// YearRange expands an inclusive [from, to] year range into a slice.
func YearRange(from, to int) []int {
	if from > to {
		return nil
	}
	years := make([]int, 0, to-from+1)
	for year := from; year <= to; year++ {
		years = append(years, year)
	}
	return years
}
