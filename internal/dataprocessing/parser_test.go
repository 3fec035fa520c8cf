package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ghgfactors/pkg/contracts/domain"
)

func TestSheetName(t *testing.T) {
	assert.Equal(t, "2015_Detail_Commodity", SheetName(2015, domain.SourceCommodity))
	assert.Equal(t, "2010_Detail_Industry", SheetName(2010, domain.SourceIndustry))
}

func TestParseSheet_Commodity(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	writeDetailSheet(t, f, 2015, domain.SourceCommodity, sampleRows(domain.SourceCommodity))

	records, err := ParseSheet(f, 2015, domain.SourceCommodity)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "C1111A0", first.Code)
	assert.Equal(t, "Oilseed farming", first.Name)
	assert.Equal(t, domain.SubstanceCO2, first.Substance)
	assert.Equal(t, "kg/2018 USD, purchaser price", first.Unit)
	assert.InDelta(t, 0.317, first.FactorWithoutMargins, 1e-9)
	assert.InDelta(t, 0.045, first.MarginValue, 1e-9)
	assert.InDelta(t, 0.362, first.FactorWithMargins, 1e-9)
	assert.Equal(t, [5]int{4, 3, 1, 4, 1}, first.QualityScores())
	assert.Equal(t, domain.SourceCommodity, first.Source)
	assert.Equal(t, 2015, first.Year)
}

func TestParseSheet_IndustryRenamesCodeAndName(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	writeDetailSheet(t, f, 2012, domain.SourceIndustry, sampleRows(domain.SourceIndustry))

	records, err := ParseSheet(f, 2012, domain.SourceIndustry)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// "Industry Code"/"Industry Name" land in the shared Code/Name fields.
	assert.Equal(t, "I1111A0", records[0].Code)
	assert.Equal(t, "Oilseed farming", records[0].Name)
	assert.Equal(t, domain.SourceIndustry, records[0].Source)
	assert.Equal(t, 2012, records[0].Year)
}

func TestParseSheet_RenameIsBijective(t *testing.T) {
	// Identical data under both sheet schemas normalizes to records that
	// differ only in their Source tag.
	rows := [][]interface{}{
		{"1111A0", "Oilseed farming", domain.SubstanceN2O, "kg/2018 USD, purchaser price", 0.1, 0.02, 0.12, 2, 2, 2, 2, 2},
	}

	f := excelize.NewFile()
	defer f.Close()
	writeDetailSheet(t, f, 2014, domain.SourceCommodity, rows)
	writeDetailSheet(t, f, 2014, domain.SourceIndustry, rows)

	commodity, err := ParseSheet(f, 2014, domain.SourceCommodity)
	require.NoError(t, err)
	industry, err := ParseSheet(f, 2014, domain.SourceIndustry)
	require.NoError(t, err)

	require.Len(t, commodity, 1)
	require.Len(t, industry, 1)

	normalized := industry[0]
	normalized.Source = domain.SourceCommodity
	assert.Equal(t, commodity[0], normalized)
}

func TestParseSheet_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := ParseSheet(f, 2013, domain.SourceIndustry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2013_Detail_Industry")
}

func TestParseSheet_HeaderWhitespaceTrimmed(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := SheetName(2016, domain.SourceCommodity)
	_, err := f.NewSheet(sheetName)
	require.NoError(t, err)

	header := []interface{}{
		"  Commodity Code ",
		" Commodity Name",
		"Substance ",
		" Unit ",
		" Supply Chain Emission Factors without Margins",
		"Margins of Supply Chain Emission Factors ",
		" Supply Chain Emission Factors with Margins ",
		"DQ ReliabilityScore of Factors without Margins",
		"DQ TemporalCorrelation of Factors without Margins",
		"DQ GeographicalCorrelation of Factors without Margins",
		"DQ TechnologicalCorrelation of Factors without Margins",
		"DQ DataCollection of Factors without Margins",
	}
	require.NoError(t, f.SetSheetRow(sheetName, "A1", &header))
	row := []interface{}{"331110", "Iron and steel mills", domain.SubstanceCO2, "kg/2018 USD, purchaser price", 1.2, 0.1, 1.3, 1, 1, 1, 1, 1}
	require.NoError(t, f.SetSheetRow(sheetName, "A2", &row))

	records, err := ParseSheet(f, 2016, domain.SourceCommodity)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "331110", records[0].Code)
	assert.InDelta(t, 1.3, records[0].FactorWithMargins, 1e-9)
}

func TestParseSheet_SkipsEmptyAndCodelessRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := SheetName(2011, domain.SourceCommodity)
	_, err := f.NewSheet(sheetName)
	require.NoError(t, err)

	header := detailHeader(domain.SourceCommodity)
	require.NoError(t, f.SetSheetRow(sheetName, "A1", &header))

	valid := []interface{}{"1111A0", "Oilseed farming", domain.SubstanceCO2, "kg/2018 USD, purchaser price", 0.3, 0.04, 0.34, 4, 3, 1, 4, 1}
	require.NoError(t, f.SetSheetRow(sheetName, "A2", &valid))
	// Row 3 left entirely blank.
	codeless := []interface{}{"", "Footnote text", "", "", "", "", "", "", "", "", "", ""}
	require.NoError(t, f.SetSheetRow(sheetName, "A4", &codeless))
	second := []interface{}{"1111B0", "Grain farming", domain.SubstanceCH4, "kg/2018 USD, purchaser price", 0.02, 0.002, 0.022, 3, 2, 1, 3, 2}
	require.NoError(t, f.SetSheetRow(sheetName, "A5", &second))

	records, err := ParseSheet(f, 2011, domain.SourceCommodity)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1111A0", records[0].Code)
	assert.Equal(t, "1111B0", records[1].Code)
}

func TestParseSheet_MissingRequiredColumns(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := SheetName(2010, domain.SourceCommodity)
	_, err := f.NewSheet(sheetName)
	require.NoError(t, err)

	// Header without the Unit and margin columns.
	header := []interface{}{
		"Commodity Code",
		"Commodity Name",
		"Substance",
		"Supply Chain Emission Factors without Margins",
		"Supply Chain Emission Factors with Margins",
		"DQ ReliabilityScore of Factors without Margins",
		"DQ TemporalCorrelation of Factors without Margins",
		"DQ GeographicalCorrelation of Factors without Margins",
		"DQ TechnologicalCorrelation of Factors without Margins",
		"DQ DataCollection of Factors without Margins",
	}
	require.NoError(t, f.SetSheetRow(sheetName, "A1", &header))

	_, err = ParseSheet(f, 2010, domain.SourceCommodity)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "unit")
	assert.Contains(t, err.Error(), "margin_value")
}

func TestParseSheet_ThousandsSeparators(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := SheetName(2016, domain.SourceIndustry)
	_, err := f.NewSheet(sheetName)
	require.NoError(t, err)

	header := detailHeader(domain.SourceIndustry)
	require.NoError(t, f.SetSheetRow(sheetName, "A1", &header))
	row := []interface{}{"22", "Utilities", domain.SubstanceCO2, "kg/2018 USD, purchaser price", "1,234.5", "10.5", "1,245.0", 2, 2, 2, 2, 2}
	require.NoError(t, f.SetSheetRow(sheetName, "A2", &row))

	records, err := ParseSheet(f, 2016, domain.SourceIndustry)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 1234.5, records[0].FactorWithoutMargins, 1e-9)
	assert.InDelta(t, 1245.0, records[0].FactorWithMargins, 1e-9)
}
