package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"ghgfactors/pkg/contracts/domain"
)

// Column keys used in the dynamic header map.
const (
	colCode          = "code"
	colName          = "name"
	colSubstance     = "substance"
	colUnit          = "unit"
	colFactorWithout = "factor_without_margins"
	colMargin        = "margin_value"
	colFactorWith    = "factor_with_margins"
	colReliability   = "dq_reliability"
	colTemporal      = "dq_temporal"
	colGeographical  = "dq_geographical"
	colTechnological = "dq_technological"
	colCollection    = "dq_data_collection"
)

// requiredColumns must all be present in a detail sheet header.
var requiredColumns = []string{
	colCode, colName, colSubstance, colUnit,
	colFactorWithout, colMargin, colFactorWith,
	colReliability, colTemporal, colGeographical, colTechnological, colCollection,
}

// SheetName returns the workbook sheet name for a year and sheet kind,
// e.g. "2015_Detail_Commodity".
func SheetName(year int, kind domain.SourceKind) string {
	return fmt.Sprintf("%d_Detail_%s", year, kind)
}

// ParseSheet reads one detail sheet from an open workbook and returns its
// rows normalized into the combined schema: headers are whitespace-trimmed,
// the kind-specific code/name columns are renamed to Code/Name, and every
// record is tagged with the sheet's Source kind and Year.
func ParseSheet(f *excelize.File, year int, kind domain.SourceKind) ([]domain.FactorRecord, error) {
	sheetName := SheetName(year, kind)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheetName)
	}

	columnMap, err := mapHeader(rows[0], kind)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheetName, err)
	}

	slog.Debug("Parsing detail sheet",
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)-1))

	var records []domain.FactorRecord
	for i := 1; i < len(rows); i++ {
		row := rows[i]

		// Helper to safely get a trimmed string
		getString := func(col string) string {
			if idx, exists := columnMap[col]; exists && idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		// Helper to safely parse a float, tolerating thousands separators
		parseFloat := func(col string) float64 {
			val, _ := strconv.ParseFloat(strings.ReplaceAll(getString(col), ",", ""), 64)
			return val
		}

		// Helper to safely parse a data-quality score
		parseScore := func(col string) int {
			val, _ := strconv.Atoi(getString(col))
			return val
		}

		// Skip rows that are entirely empty
		isEmpty := true
		for _, colIndex := range columnMap {
			if colIndex < len(row) && strings.TrimSpace(row[colIndex]) != "" {
				isEmpty = false
				break
			}
		}
		if isEmpty {
			continue
		}

		// Skip rows with no classification code (merged cells, footnotes)
		code := getString(colCode)
		if code == "" {
			slog.Debug("Skipped row without classification code",
				slog.String("sheet_name", sheetName),
				slog.Int("row_number", i))
			continue
		}

		records = append(records, domain.FactorRecord{
			Code:                 code,
			Name:                 getString(colName),
			Substance:            getString(colSubstance),
			Unit:                 getString(colUnit),
			FactorWithoutMargins: parseFloat(colFactorWithout),
			MarginValue:          parseFloat(colMargin),
			FactorWithMargins:    parseFloat(colFactorWith),

			Reliability:              parseScore(colReliability),
			TemporalCorrelation:      parseScore(colTemporal),
			GeographicalCorrelation:  parseScore(colGeographical),
			TechnologicalCorrelation: parseScore(colTechnological),
			DataCollection:           parseScore(colCollection),

			Source: kind,
			Year:   year,
		})
	}

	slog.Debug("Sheet parsed",
		slog.String("sheet_name", sheetName),
		slog.Int("record_count", len(records)))

	return records, nil
}

// mapHeader maps the sheet's header row to column positions. The commodity
// and industry sheets differ only in their code/name headers ("Commodity
// Code" vs "Industry Code"), so the kind-specific prefix is folded into the
// shared keys here; this is where the rename to the combined schema happens.
func mapHeader(header []string, kind domain.SourceKind) (map[string]int, error) {
	kindPrefix := strings.ToLower(string(kind))
	columnMap := make(map[string]int)

	for j, h := range header {
		headerLower := strings.ToLower(strings.TrimSpace(h))

		switch {
		case headerLower == kindPrefix+" code":
			columnMap[colCode] = j
		case headerLower == kindPrefix+" name":
			columnMap[colName] = j
		case headerLower == "substance":
			columnMap[colSubstance] = j
		case headerLower == "unit":
			columnMap[colUnit] = j
		case strings.HasPrefix(headerLower, "dq") && strings.Contains(headerLower, "reliability"):
			columnMap[colReliability] = j
		case strings.HasPrefix(headerLower, "dq") && strings.Contains(headerLower, "temporal"):
			columnMap[colTemporal] = j
		case strings.HasPrefix(headerLower, "dq") && strings.Contains(headerLower, "geographical"):
			columnMap[colGeographical] = j
		case strings.HasPrefix(headerLower, "dq") && strings.Contains(headerLower, "technological"):
			columnMap[colTechnological] = j
		case strings.HasPrefix(headerLower, "dq") && strings.Contains(headerLower, "collection"):
			columnMap[colCollection] = j
		case strings.Contains(headerLower, "emission factors") && strings.Contains(headerLower, "without margins"):
			columnMap[colFactorWithout] = j
		case strings.HasPrefix(headerLower, "margins of"):
			columnMap[colMargin] = j
		case strings.Contains(headerLower, "emission factors") && strings.Contains(headerLower, "with margins"):
			columnMap[colFactorWith] = j
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return columnMap, nil
}
