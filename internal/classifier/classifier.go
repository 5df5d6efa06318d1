// Package classifier provides the binary classifiers compared by the
// fraud workflow: a penalized logistic regression and a random forest.
//
// Fitting never mutates a Classifier. Each Fit returns a new Model, so
// retraining on more data is simply a second Fit call.
package classifier

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch is returned when features and labels disagree in size.
var ErrShapeMismatch = errors.New("shape mismatch")

// Classifier is an unfitted model configuration.
type Classifier interface {
	// Name is the human-readable model name used in reports.
	Name() string

	// Fit trains on X (rows x features) and binary labels y.
	Fit(ctx context.Context, X mat.Matrix, y []int) (Model, error)
}

// Model is a trained, read-only classifier.
type Model interface {
	// PredictProba returns the probability of class 1 for each row.
	PredictProba(X mat.Matrix) []float64

	// Predict returns 0/1 labels for each row.
	Predict(X mat.Matrix) []int
}

// BalancedWeights returns n / (k * n_c) for each class c present in y,
// where k is the number of classes. Rare classes get large weights.
func BalancedWeights(y []int) map[int]float64 {
	counts := make(map[int]int)
	for _, v := range y {
		counts[v]++
	}
	weights := make(map[int]float64, len(counts))
	n, k := float64(len(y)), float64(len(counts))
	for c, nc := range counts {
		weights[c] = n / (k * float64(nc))
	}
	return weights
}

// SampleWeights expands class weights to one weight per row.
func SampleWeights(y []int, classWeights map[int]float64) []float64 {
	w := make([]float64, len(y))
	for i, v := range y {
		w[i] = classWeights[v]
	}
	return w
}

// threshold labels probabilities strictly above one half as class 1.
func threshold(p []float64) []int {
	out := make([]int, len(p))
	for i, v := range p {
		if v > 0.5 {
			out[i] = 1
		}
	}
	return out
}

func checkXY(X mat.Matrix, y []int) (int, int, error) {
	r, c := X.Dims()
	if r != len(y) {
		return 0, 0, fmt.Errorf("%w: %d feature rows, %d labels", ErrShapeMismatch, r, len(y))
	}
	if r == 0 || c == 0 {
		return 0, 0, fmt.Errorf("%w: empty training matrix %dx%d", ErrShapeMismatch, r, c)
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return 0, 0, fmt.Errorf("label at row %d is %d, want 0 or 1", i, v)
		}
	}
	return r, c, nil
}
