package pipeline

import (
	"context"
	"fmt"

	"github.com/sjwhitworth/golearn/evaluation"
	"go.uber.org/zap"

	"github.com/FlavioCFOliveira/frauddetect/internal/dataset"
	"github.com/FlavioCFOliveira/frauddetect/internal/metrics"
)

// Evaluation is the validation outcome of one candidate.
type Evaluation struct {
	Name      string
	F1        float64
	Confusion evaluation.ConfusionMatrix
}

// Selection is the outcome of comparing the baseline with the advanced
// candidate.
type Selection struct {
	Baseline   Evaluation
	Advanced   Evaluation
	Chosen     Spec
	ChosenEval Evaluation
	TrainRows  int
	ValRows    int
}

// SelectOptions controls the validation split.
type SelectOptions struct {
	TestSize float64
	Seed     int64
	Logger   *zap.Logger
}

// Select splits data into stratified training and validation parts, fits
// both candidates on the training part and keeps the one with the higher
// fraud-class F1 on the validation part. Equal scores keep the baseline.
func Select(ctx context.Context, baseline, advanced Spec, data dataset.Labeled, opts SelectOptions) (*Selection, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	train, val, err := data.Split(opts.TestSize, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("validation split: %w", err)
	}
	logger.Info("validation split",
		zap.Int("train_rows", len(train.Y)),
		zap.Int("validation_rows", len(val.Y)))

	sel := &Selection{TrainRows: len(train.Y), ValRows: len(val.Y)}
	if sel.Baseline, err = evaluate(ctx, baseline, train, val, logger); err != nil {
		return nil, err
	}
	if sel.Advanced, err = evaluate(ctx, advanced, train, val, logger); err != nil {
		return nil, err
	}

	sel.Chosen, sel.ChosenEval = baseline, sel.Baseline
	if sel.Advanced.F1 > sel.Baseline.F1 {
		sel.Chosen, sel.ChosenEval = advanced, sel.Advanced
	}
	logger.Info("model selected",
		zap.String("model", sel.Chosen.Name),
		zap.Float64("baseline_f1", sel.Baseline.F1),
		zap.Float64("advanced_f1", sel.Advanced.F1))
	return sel, nil
}

func evaluate(ctx context.Context, spec Spec, train, val dataset.Labeled, logger *zap.Logger) (Evaluation, error) {
	logger.Info("training candidate", zap.String("model", spec.Name))

	trained, err := Fit(ctx, spec, train.X, train.Y)
	if err != nil {
		return Evaluation{}, err
	}
	pred, err := trained.Predict(val.X)
	if err != nil {
		return Evaluation{}, err
	}
	cm, err := metrics.Confusion(val.Y, pred)
	if err != nil {
		return Evaluation{}, fmt.Errorf("score %q: %w", spec.Name, err)
	}
	return Evaluation{
		Name:      spec.Name,
		F1:        metrics.Scores(cm, metrics.Positive).F1,
		Confusion: cm,
	}, nil
}
