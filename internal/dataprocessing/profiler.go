package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"ghgfactors/pkg/contracts/domain"
)

// Profiler computes data-integrity statistics over a combined dataset. It
// consolidates the null checks and group counts that would otherwise be
// scattered across the ingestion and export steps.
type Profiler struct {
	logger *slog.Logger
}

// NewProfiler creates a profiler. A nil logger falls back to slog.Default.
func NewProfiler(logger *slog.Logger) *Profiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Profiler{logger: logger}
}

// ColumnStats summarizes one numeric column.
type ColumnStats struct {
	Column string
	Min    float64
	Max    float64
	Mean   float64
	Zeros  int
}

// GroupCount is the row count of one (year, source) group.
type GroupCount struct {
	Year   int
	Source domain.SourceKind
	Rows   int
}

// Profile is the result of profiling a combined dataset.
type Profile struct {
	TotalRows        int
	Groups           []GroupCount
	FactorStats      []ColumnStats
	MarginViolations int
	DuplicateKeys    int
	MissingCode      int
	MissingName      int
	MissingSubstance int
	MissingUnit      int
	InvalidScores    int
}

// Profile computes integrity statistics for the given records.
func (p *Profiler) Profile(ctx context.Context, records []domain.FactorRecord) *Profile {
	profile := &Profile{TotalRows: len(records)}
	if len(records) == 0 {
		return profile
	}

	groupRows := make(map[GroupCount]int)
	seenKeys := make(map[domain.Key]bool)

	withoutMargins := make([]float64, len(records))
	margins := make([]float64, len(records))
	withMargins := make([]float64, len(records))

	for i, record := range records {
		group := GroupCount{Year: record.Year, Source: record.Source}
		groupRows[group]++

		key := record.Key()
		if seenKeys[key] {
			profile.DuplicateKeys++
		}
		seenKeys[key] = true

		withoutMargins[i] = record.FactorWithoutMargins
		margins[i] = record.MarginValue
		withMargins[i] = record.FactorWithMargins

		if !record.MarginConsistent() {
			profile.MarginViolations++
		}

		if record.Code == "" {
			profile.MissingCode++
		}
		if record.Name == "" {
			profile.MissingName++
		}
		if record.Substance == "" {
			profile.MissingSubstance++
		}
		if record.Unit == "" {
			profile.MissingUnit++
		}
		for _, score := range record.QualityScores() {
			if score < 1 || score > 5 {
				profile.InvalidScores++
			}
		}
	}

	for group, rows := range groupRows {
		group.Rows = rows
		profile.Groups = append(profile.Groups, group)
	}
	sort.Slice(profile.Groups, func(i, j int) bool {
		if profile.Groups[i].Year != profile.Groups[j].Year {
			return profile.Groups[i].Year < profile.Groups[j].Year
		}
		return profile.Groups[i].Source < profile.Groups[j].Source
	})

	profile.FactorStats = []ColumnStats{
		columnStats("FactorWithoutMargins", withoutMargins),
		columnStats("MarginValue", margins),
		columnStats("FactorWithMargins", withMargins),
	}

	p.logger.InfoContext(ctx, "dataset profiled",
		slog.Int("total_rows", profile.TotalRows),
		slog.Int("groups", len(profile.Groups)),
		slog.Int("duplicate_keys", profile.DuplicateKeys),
		slog.Int("margin_violations", profile.MarginViolations))

	return profile
}

// columnStats computes summary statistics for one column.
func columnStats(column string, values []float64) ColumnStats {
	zeros := 0
	for _, v := range values {
		if v == 0 {
			zeros++
		}
	}
	return ColumnStats{
		Column: column,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   stat.Mean(values, nil),
		Zeros:  zeros,
	}
}

// ReportHeaders returns the header row for the profile CSV report.
func (pr *Profile) ReportHeaders() []string {
	return []string{"Metric", "Value"}
}

// ReportRows flattens the profile into metric/value rows for the CSV report.
func (pr *Profile) ReportRows() [][]string {
	rows := [][]string{
		{"TotalRows", fmt.Sprintf("%d", pr.TotalRows)},
		{"DuplicateKeys", fmt.Sprintf("%d", pr.DuplicateKeys)},
		{"MarginViolations", fmt.Sprintf("%d", pr.MarginViolations)},
		{"MissingCode", fmt.Sprintf("%d", pr.MissingCode)},
		{"MissingName", fmt.Sprintf("%d", pr.MissingName)},
		{"MissingSubstance", fmt.Sprintf("%d", pr.MissingSubstance)},
		{"MissingUnit", fmt.Sprintf("%d", pr.MissingUnit)},
		{"InvalidScores", fmt.Sprintf("%d", pr.InvalidScores)},
	}

	for _, group := range pr.Groups {
		rows = append(rows, []string{
			fmt.Sprintf("Rows[%d/%s]", group.Year, group.Source),
			fmt.Sprintf("%d", group.Rows),
		})
	}

	for _, stats := range pr.FactorStats {
		rows = append(rows,
			[]string{stats.Column + ".Min", fmt.Sprintf("%g", stats.Min)},
			[]string{stats.Column + ".Max", fmt.Sprintf("%g", stats.Max)},
			[]string{stats.Column + ".Mean", fmt.Sprintf("%g", stats.Mean)},
			[]string{stats.Column + ".Zeros", fmt.Sprintf("%d", stats.Zeros)},
		)
	}

	return rows
}
