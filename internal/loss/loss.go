// Package loss provides the objectives minimized by linear classifiers.
package loss

import "math"

// BackwardInPlacer is implemented by losses that write their gradient into a
// caller-owned slice to avoid allocations inside solver iterations.
type BackwardInPlacer interface {
	BackwardInPlace(logits, yTrue, grad []float64)
}

// Loss is a loss function over raw scores with derivative.
type Loss interface {
	// Forward computes the loss between scores and true labels.
	Forward(logits, yTrue []float64) float64

	// Backward computes the gradient of the loss w.r.t. each score.
	Backward(logits, yTrue []float64) []float64
}

// Sigmoid maps a score to a probability without overflowing for large |z|.
func Sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// WeightedBCEWithLogits is binary cross entropy over logits with one weight
// per sample. It sums rather than averages, matching the penalized
// likelihood form 0.5*||w||^2 + C*sum(loss).
// A nil Weights slice weighs every sample by 1.
type WeightedBCEWithLogits struct {
	Weights []float64
}

func (b WeightedBCEWithLogits) weight(i int) float64 {
	if b.Weights == nil {
		return 1
	}
	return b.Weights[i]
}

func (b WeightedBCEWithLogits) check(n int, others ...int) {
	for _, m := range others {
		if m != n {
			panic("WeightedBCEWithLogits: slices must have same length")
		}
	}
	if b.Weights != nil && len(b.Weights) != n {
		panic("WeightedBCEWithLogits: weights must match sample count")
	}
}

// Forward computes sum_i w_i * (max(z,0) - z*y + log(1+exp(-|z|))).
func (b WeightedBCEWithLogits) Forward(logits, yTrue []float64) float64 {
	n := len(logits)
	b.check(n, len(yTrue))

	var sum float64
	for i := 0; i < n; i++ {
		z := logits[i]
		sum += b.weight(i) * (math.Max(z, 0) - z*yTrue[i] + math.Log1p(math.Exp(-math.Abs(z))))
	}
	return sum
}

// Backward computes w_i * (sigmoid(z_i) - y_i).
func (b WeightedBCEWithLogits) Backward(logits, yTrue []float64) []float64 {
	grad := make([]float64, len(logits))
	b.BackwardInPlace(logits, yTrue, grad)
	return grad
}

// BackwardInPlace computes the gradient and stores it in grad.
func (b WeightedBCEWithLogits) BackwardInPlace(logits, yTrue, grad []float64) {
	n := len(logits)
	b.check(n, len(yTrue), len(grad))

	for i := 0; i < n; i++ {
		grad[i] = b.weight(i) * (Sigmoid(logits[i]) - yTrue[i])
	}
}
