package domain

import "math"

// SourceKind identifies which detail sheet a record was read from.
type SourceKind string

const (
	SourceCommodity SourceKind = "Commodity"
	SourceIndustry  SourceKind = "Industry"
)

// Year bounds of the supply-chain factor workbook.
const (
	MinYear = 2010
	MaxYear = 2016
)

// MarginTolerance is the allowed gap in the margin identity
// FactorWithMargins = FactorWithoutMargins + MarginValue. The published
// workbook rounds factors to three decimals, so exact equality does not hold.
const MarginTolerance = 0.005

// Substances that appear in the detail sheets.
const (
	SubstanceCO2   = "carbon dioxide"
	SubstanceCH4   = "methane"
	SubstanceN2O   = "nitrous oxide"
	SubstanceOther = "other GHGs"
)

// FactorRecord represents one (classification code, substance) emission-factor
// observation from a single detail sheet, normalized into the combined schema.
type FactorRecord struct {
	Code      string `json:"code" csv:"Code" validate:"required"`
	Name      string `json:"name" csv:"Name" validate:"required"`
	Substance string `json:"substance" csv:"Substance" validate:"required"`
	Unit      string `json:"unit" csv:"Unit" validate:"required"`

	FactorWithoutMargins float64 `json:"factor_without_margins" csv:"FactorWithoutMargins" validate:"min=0"`
	MarginValue          float64 `json:"margin_value" csv:"MarginValue" validate:"min=0"`
	FactorWithMargins    float64 `json:"factor_with_margins" csv:"FactorWithMargins" validate:"min=0"`

	// Data-quality scores, ordinal 1-5 per the EPA pedigree matrix.
	Reliability              int `json:"dq_reliability" csv:"DQReliability" validate:"min=1,max=5"`
	TemporalCorrelation      int `json:"dq_temporal_correlation" csv:"DQTemporalCorrelation" validate:"min=1,max=5"`
	GeographicalCorrelation  int `json:"dq_geographical_correlation" csv:"DQGeographicalCorrelation" validate:"min=1,max=5"`
	TechnologicalCorrelation int `json:"dq_technological_correlation" csv:"DQTechnologicalCorrelation" validate:"min=1,max=5"`
	DataCollection           int `json:"dq_data_collection" csv:"DQDataCollection" validate:"min=1,max=5"`

	Source SourceKind `json:"source" csv:"Source" validate:"required,oneof=Commodity Industry"`
	Year   int        `json:"year" csv:"Year" validate:"min=2010,max=2016"`
}

// MarginResidual returns the gap in the margin identity for this record.
func (r FactorRecord) MarginResidual() float64 {
	return r.FactorWithMargins - (r.FactorWithoutMargins + r.MarginValue)
}

// MarginConsistent reports whether the margin identity holds within
// MarginTolerance.
func (r FactorRecord) MarginConsistent() bool {
	return math.Abs(r.MarginResidual()) <= MarginTolerance
}

// Key identifies the tuple expected unique within a combined dataset.
type Key struct {
	Code      string
	Substance string
	Year      int
	Source    SourceKind
}

// Key returns the record's uniqueness key.
func (r FactorRecord) Key() Key {
	return Key{Code: r.Code, Substance: r.Substance, Year: r.Year, Source: r.Source}
}

// QualityScores returns the five data-quality scores in a fixed order:
// reliability, temporal, geographical, technological, data collection.
func (r FactorRecord) QualityScores() [5]int {
	return [5]int{
		r.Reliability,
		r.TemporalCorrelation,
		r.GeographicalCorrelation,
		r.TechnologicalCorrelation,
		r.DataCollection,
	}
}
