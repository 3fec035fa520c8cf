// Package regression fits an ordinary-least-squares model predicting the
// emission factor with margins from the categorical features and the five
// data-quality scores of the combined dataset, and evaluates it with RMSE,
// MAE, and R-squared on a held-out split.
package regression
