package validation

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"ghgfactors/pkg/contracts/domain"
)

// RecordValidator checks factor records against the combined-schema
// constraints: non-negative factors, quality scores in 1..5, a known Source
// kind, a supported Year, and the margin identity within tolerance.
type RecordValidator struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewRecordValidator creates a record validator
func NewRecordValidator(logger *slog.Logger) *RecordValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordValidator{
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ValidateRecord validates a single record
func (v *RecordValidator) ValidateRecord(record domain.FactorRecord) error {
	if err := v.validate.Struct(record); err != nil {
		return fmt.Errorf("record %s/%s/%d/%s: %w",
			record.Code, record.Substance, record.Year, record.Source, err)
	}
	if !record.MarginConsistent() {
		return fmt.Errorf("record %s/%s/%d/%s: margin identity violated by %g",
			record.Code, record.Substance, record.Year, record.Source, record.MarginResidual())
	}
	return nil
}

// RecordError pairs a failed record's row index with its validation error.
type RecordError struct {
	Index int
	Err   error
}

// ValidateAll validates every record and returns the failures. It never
// stops early: a bad row should be reported, not abort the dataset.
func (v *RecordValidator) ValidateAll(records []domain.FactorRecord) []RecordError {
	var failures []RecordError
	for i, record := range records {
		if err := v.ValidateRecord(record); err != nil {
			failures = append(failures, RecordError{Index: i, Err: err})
			v.logger.Warn("record failed validation",
				slog.Int("row", i),
				slog.String("code", record.Code),
				slog.Int("year", record.Year),
				slog.String("error", err.Error()))
		}
	}
	return failures
}
