package regression

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"ghgfactors/pkg/contracts/domain"
)

// scoreFeatures are the numeric columns taken directly from the records.
var scoreFeatures = []string{
	"DQReliability",
	"DQTemporalCorrelation",
	"DQGeographicalCorrelation",
	"DQTechnologicalCorrelation",
	"DQDataCollection",
}

// Dataset pairs an encoded design matrix with its target vector.
type Dataset struct {
	X        *mat.Dense
	Y        []float64
	Features []string
}

// Rows returns the number of observations in the dataset.
func (d *Dataset) Rows() int {
	return len(d.Y)
}

// Encode builds the design matrix for predicting FactorWithMargins from the
// categorical features (Substance, Unit, Source) and the five data-quality
// scores. Categoricals are one-hot encoded with the lexicographically first
// level dropped as the baseline, and score columns that never vary are
// dropped, so the matrix stays full rank once an intercept is added.
func Encode(records []domain.FactorRecord) (*Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("cannot encode an empty dataset")
	}

	substances := distinctLevels(records, func(r domain.FactorRecord) string { return r.Substance })
	units := distinctLevels(records, func(r domain.FactorRecord) string { return r.Unit })
	sources := distinctLevels(records, func(r domain.FactorRecord) string { return string(r.Source) })
	keepScore := varyingScores(records)

	var features []string
	for _, level := range substances[1:] {
		features = append(features, "Substance="+level)
	}
	for _, level := range units[1:] {
		features = append(features, "Unit="+level)
	}
	for _, level := range sources[1:] {
		features = append(features, "Source="+level)
	}
	for s, name := range scoreFeatures {
		if keepScore[s] {
			features = append(features, name)
		}
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("no varying features in %d records, nothing to regress on", len(records))
	}

	x := mat.NewDense(len(records), len(features), nil)
	y := make([]float64, len(records))

	for i, record := range records {
		col := 0
		for _, level := range substances[1:] {
			x.Set(i, col, indicator(record.Substance == level))
			col++
		}
		for _, level := range units[1:] {
			x.Set(i, col, indicator(record.Unit == level))
			col++
		}
		for _, level := range sources[1:] {
			x.Set(i, col, indicator(string(record.Source) == level))
			col++
		}
		for s, score := range record.QualityScores() {
			if keepScore[s] {
				x.Set(i, col, float64(score))
				col++
			}
		}
		y[i] = record.FactorWithMargins
	}

	return &Dataset{X: x, Y: y, Features: features}, nil
}

// varyingScores reports, per score column, whether any two records disagree.
// A constant column carries no information and would make the augmented
// design matrix singular.
func varyingScores(records []domain.FactorRecord) [5]bool {
	var varying [5]bool
	first := records[0].QualityScores()
	for _, record := range records[1:] {
		scores := record.QualityScores()
		for s := range scores {
			if scores[s] != first[s] {
				varying[s] = true
			}
		}
	}
	return varying
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// distinctLevels returns the sorted distinct values of a categorical field.
func distinctLevels(records []domain.FactorRecord, get func(domain.FactorRecord) string) []string {
	seen := make(map[string]bool)
	for _, record := range records {
		seen[get(record)] = true
	}
	levels := make([]string, 0, len(seen))
	for level := range seen {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	return levels
}

// Split partitions the dataset into train and test subsets using a seeded
// shuffle, so a given (dataset, fraction, seed) triple always produces the
// same split.
func (d *Dataset) Split(testFraction float64, seed int64) (train, test *Dataset, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction %v must be in (0, 1)", testFraction)
	}

	n := d.Rows()
	nTest := int(math.Round(float64(n) * testFraction))
	if nTest < 1 || n-nTest < 1 {
		return nil, nil, fmt.Errorf("cannot split %d rows with test fraction %v", n, testFraction)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	testIdx := perm[:nTest]
	trainIdx := perm[nTest:]

	return d.subset(trainIdx), d.subset(testIdx), nil
}

// subset builds a new dataset from the given row indices.
func (d *Dataset) subset(indices []int) *Dataset {
	_, cols := d.X.Dims()
	x := mat.NewDense(len(indices), cols, nil)
	y := make([]float64, len(indices))

	for i, idx := range indices {
		x.SetRow(i, d.X.RawRowView(idx))
		y[i] = d.Y[idx]
	}

	return &Dataset{X: x, Y: y, Features: d.Features}
}

// Scaler standardizes feature columns to zero mean and unit variance.
// It must be fitted on the training split only.
type Scaler struct {
	mean []float64
	std  []float64
}

// FitScaler computes per-column statistics from the given matrix.
func FitScaler(x *mat.Dense) *Scaler {
	rows, cols := x.Dims()
	scaler := &Scaler{
		mean: make([]float64, cols),
		std:  make([]float64, cols),
	}

	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			// Constant columns pass through unscaled.
			std = 1
		}
		scaler.mean[j] = mean
		scaler.std[j] = std
	}

	return scaler
}

// Transform returns a standardized copy of the matrix.
func (s *Scaler) Transform(x *mat.Dense) (*mat.Dense, error) {
	rows, cols := x.Dims()
	if cols != len(s.mean) {
		return nil, fmt.Errorf("scaler fitted on %d columns, got %d", len(s.mean), cols)
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (x.At(i, j)-s.mean[j])/s.std[j])
		}
	}
	return out, nil
}
