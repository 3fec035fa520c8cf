package dataprocessing

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ghgfactors/pkg/contracts/domain"
)

// detailHeader returns the header row of a detail sheet for the given kind.
func detailHeader(kind domain.SourceKind) []interface{} {
	return []interface{}{
		fmt.Sprintf("%s Code", kind),
		fmt.Sprintf("%s Name", kind),
		"Substance",
		"Unit",
		"Supply Chain Emission Factors without Margins",
		"Margins of Supply Chain Emission Factors",
		"Supply Chain Emission Factors with Margins",
		"DQ ReliabilityScore of Factors without Margins",
		"DQ TemporalCorrelation of Factors without Margins",
		"DQ GeographicalCorrelation of Factors without Margins",
		"DQ TechnologicalCorrelation of Factors without Margins",
		"DQ DataCollection of Factors without Margins",
	}
}

// sampleRows returns two plausible data rows for a detail sheet.
func sampleRows(kind domain.SourceKind) [][]interface{} {
	prefix := "C"
	if kind == domain.SourceIndustry {
		prefix = "I"
	}
	return [][]interface{}{
		{prefix + "1111A0", "Oilseed farming", domain.SubstanceCO2, "kg/2018 USD, purchaser price", 0.317, 0.045, 0.362, 4, 3, 1, 4, 1},
		{prefix + "1111B0", "Grain farming", domain.SubstanceCH4, "kg/2018 USD, purchaser price", 0.021, 0.002, 0.023, 3, 2, 1, 3, 2},
	}
}

// writeDetailSheet adds one detail sheet with a header and the given rows.
func writeDetailSheet(t *testing.T, f *excelize.File, year int, kind domain.SourceKind, rows [][]interface{}) {
	t.Helper()

	sheetName := SheetName(year, kind)
	_, err := f.NewSheet(sheetName)
	require.NoError(t, err)

	header := detailHeader(kind)
	require.NoError(t, f.SetSheetRow(sheetName, "A1", &header))
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		require.NoError(t, f.SetSheetRow(sheetName, cell, &row))
	}
}

// buildWorkbook creates a workbook containing both detail sheets, with the
// standard sample rows, for every given year.
func buildWorkbook(t *testing.T, years []int) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	for _, year := range years {
		writeDetailSheet(t, f, year, domain.SourceCommodity, sampleRows(domain.SourceCommodity))
		writeDetailSheet(t, f, year, domain.SourceIndustry, sampleRows(domain.SourceIndustry))
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	return f
}

// saveWorkbook writes the workbook to a temp file and returns its path.
func saveWorkbook(t *testing.T, f *excelize.File) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "factors.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}
