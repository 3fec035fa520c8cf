package regression

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Model is an ordinary-least-squares linear model.
type Model struct {
	Intercept float64
	Weights   []float64
	Features  []string
}

// Coefficient pairs a feature name with its fitted weight.
type Coefficient struct {
	Feature string
	Weight  float64
}

// Fit solves the least-squares problem min ||Xw - y|| with an implicit
// intercept column, using a QR factorization.
func Fit(x *mat.Dense, y []float64, features []string) (*Model, error) {
	rows, cols := x.Dims()
	if rows == 0 {
		return nil, fmt.Errorf("cannot fit a model on zero rows")
	}
	if len(y) != rows {
		return nil, fmt.Errorf("design matrix has %d rows but target has %d values", rows, len(y))
	}
	if len(features) != cols {
		return nil, fmt.Errorf("design matrix has %d columns but %d feature names", cols, len(features))
	}
	if rows < cols+1 {
		return nil, fmt.Errorf("underdetermined system: %d rows for %d coefficients", rows, cols+1)
	}

	// Augment with the intercept column.
	augmented := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		augmented.Set(i, 0, 1)
	}
	augmented.Slice(0, rows, 1, cols+1).(*mat.Dense).Copy(x)

	var qr mat.QR
	qr.Factorize(augmented)

	coef := mat.NewDense(cols+1, 1, nil)
	if err := qr.SolveTo(coef, false, mat.NewDense(rows, 1, y)); err != nil {
		return nil, fmt.Errorf("least-squares solve failed: %w", err)
	}

	model := &Model{
		Intercept: coef.At(0, 0),
		Weights:   make([]float64, cols),
		Features:  append([]string(nil), features...),
	}
	for j := 0; j < cols; j++ {
		model.Weights[j] = coef.At(j+1, 0)
	}

	return model, nil
}

// Predict returns the model's predictions for the rows of x.
func (m *Model) Predict(x *mat.Dense) ([]float64, error) {
	rows, cols := x.Dims()
	if cols != len(m.Weights) {
		return nil, fmt.Errorf("model fitted on %d features, got %d columns", len(m.Weights), cols)
	}

	predictions := make([]float64, rows)
	for i := 0; i < rows; i++ {
		sum := m.Intercept
		for j := 0; j < cols; j++ {
			sum += m.Weights[j] * x.At(i, j)
		}
		predictions[i] = sum
	}
	return predictions, nil
}

// Coefficients returns the fitted coefficients, intercept first.
func (m *Model) Coefficients() []Coefficient {
	coefficients := make([]Coefficient, 0, len(m.Weights)+1)
	coefficients = append(coefficients, Coefficient{Feature: "(intercept)", Weight: m.Intercept})
	for j, feature := range m.Features {
		coefficients = append(coefficients, Coefficient{Feature: feature, Weight: m.Weights[j]})
	}
	return coefficients
}
