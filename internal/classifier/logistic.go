package classifier

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/FlavioCFOliveira/frauddetect/internal/loss"
)

// Logistic is an L2-penalized binary logistic regression with inverse
// frequency class weights, minimized with L-BFGS from a zero start.
// The intercept is not penalized.
type Logistic struct {
	C       float64 // Inverse regularization strength
	MaxIter int
	Logger  *zap.Logger
}

// NewLogistic creates a Logistic classifier.
func NewLogistic(c float64, maxIter int, logger *zap.Logger) *Logistic {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logistic{C: c, MaxIter: maxIter, Logger: logger}
}

// Name implements Classifier.
func (l *Logistic) Name() string { return "Logistic Regression" }

// Fit implements Classifier.
func (l *Logistic) Fit(ctx context.Context, X mat.Matrix, y []int) (Model, error) {
	rows, cols, err := checkXY(X, y)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	xd := mat.DenseCopyOf(X)
	target := make([]float64, rows)
	for i, v := range y {
		target[i] = float64(v)
	}
	objective := loss.WeightedBCEWithLogits{Weights: SampleWeights(y, BalancedWeights(y))}

	logits := make([]float64, rows)
	dLogits := make([]float64, rows)
	scores := func(x []float64) {
		z := mat.NewVecDense(rows, logits)
		z.MulVec(xd, mat.NewVecDense(cols, x[:cols]))
		for i := range logits {
			logits[i] += x[cols]
		}
	}

	// x holds the coefficients followed by the intercept.
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			scores(x)
			w := x[:cols]
			return 0.5*floats.Dot(w, w) + l.C*objective.Forward(logits, target)
		},
		Grad: func(grad, x []float64) {
			scores(x)
			objective.BackwardInPlace(logits, target, dLogits)
			g := mat.NewVecDense(cols, grad[:cols])
			g.MulVec(xd.T(), mat.NewVecDense(rows, dLogits))
			floats.Scale(l.C, grad[:cols])
			floats.Add(grad[:cols], x[:cols])
			grad[cols] = l.C * floats.Sum(dLogits)
		},
	}

	settings := &optimize.Settings{
		MajorIterations:   l.MaxIter,
		GradientThreshold: 1e-4,
		Recorder:          newProgressRecorder(ctx, l.Logger, l.Name(), 100),
	}

	result, err := optimize.Minimize(problem, make([]float64, cols+1), settings, &optimize.LBFGS{})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		if result == nil || !allFinite(result.X) {
			return nil, fmt.Errorf("logistic regression solver: %w", err)
		}
		l.Logger.Warn("solver stopped early, using last iterate",
			zap.String("model", l.Name()), zap.Error(err))
	}
	if result.Status == optimize.IterationLimit {
		l.Logger.Warn("solver reached the iteration limit",
			zap.String("model", l.Name()), zap.Int("max_iter", l.MaxIter))
	}
	l.Logger.Debug("solver finished",
		zap.String("model", l.Name()),
		zap.String("status", result.Status.String()),
		zap.Int("iterations", result.Stats.MajorIterations),
		zap.Float64("objective", result.F))

	return &LogisticModel{
		Coef:      append([]float64(nil), result.X[:cols]...),
		Intercept: result.X[cols],
	}, nil
}

// LogisticModel is a fitted logistic regression.
type LogisticModel struct {
	Coef      []float64
	Intercept float64
}

// PredictProba implements Model.
func (m *LogisticModel) PredictProba(X mat.Matrix) []float64 {
	rows, _ := X.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		z := m.Intercept
		for j, w := range m.Coef {
			z += w * X.At(i, j)
		}
		out[i] = loss.Sigmoid(z)
	}
	return out
}

// Predict implements Model.
func (m *LogisticModel) Predict(X mat.Matrix) []int {
	return threshold(m.PredictProba(X))
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
