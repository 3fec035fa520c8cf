package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Metrics holds held-out evaluation results for a fitted model.
type Metrics struct {
	RMSE float64
	MAE  float64
	R2   float64
}

// Evaluate computes RMSE, MAE, and R-squared of predictions against the
// observed values.
func Evaluate(predicted, actual []float64) (Metrics, error) {
	if len(predicted) == 0 {
		return Metrics{}, fmt.Errorf("cannot evaluate zero predictions")
	}
	if len(predicted) != len(actual) {
		return Metrics{}, fmt.Errorf("got %d predictions for %d observations", len(predicted), len(actual))
	}

	var sumSq, sumAbs float64
	for i := range predicted {
		residual := predicted[i] - actual[i]
		sumSq += residual * residual
		sumAbs += math.Abs(residual)
	}

	n := float64(len(predicted))
	return Metrics{
		RMSE: math.Sqrt(sumSq / n),
		MAE:  sumAbs / n,
		R2:   stat.RSquaredFrom(predicted, actual, nil),
	}, nil
}
