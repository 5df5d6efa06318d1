// Package pipeline composes column preprocessing with a classifier and
// selects the better of two candidates on a held-out split.
package pipeline

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/zap"

	"github.com/FlavioCFOliveira/frauddetect/internal/classifier"
	"github.com/FlavioCFOliveira/frauddetect/internal/config"
	"github.com/FlavioCFOliveira/frauddetect/internal/preprocess"
)

// Spec is an unfitted pipeline: which columns to preprocess and which
// classifier to train on the result.
type Spec struct {
	Name        string
	Numeric     []string
	Categorical []string
	Classifier  classifier.Classifier
}

// Baseline returns the logistic regression pipeline.
func Baseline(cfg *config.Config, logger *zap.Logger) Spec {
	clf := classifier.NewLogistic(cfg.Baseline.C, cfg.Baseline.MaxIter, logger)
	return Spec{
		Name:        clf.Name(),
		Numeric:     cfg.Features.Numeric,
		Categorical: cfg.Features.Categorical,
		Classifier:  clf,
	}
}

// Advanced returns the random forest pipeline.
func Advanced(cfg *config.Config, logger *zap.Logger) Spec {
	a := cfg.Advanced
	clf := classifier.NewForest(a.Trees, a.MinSamplesSplit, a.MaxDepth, a.Jobs, cfg.Seed, logger)
	return Spec{
		Name:        clf.Name(),
		Numeric:     cfg.Features.Numeric,
		Categorical: cfg.Features.Categorical,
		Classifier:  clf,
	}
}

// Trained is a fitted pipeline. It is never modified after Fit returns.
type Trained struct {
	Name         string
	preprocessor *preprocess.Fitted
	model        classifier.Model
}

// Fit learns preprocessing parameters and the classifier from X and y.
func Fit(ctx context.Context, spec Spec, X dataframe.DataFrame, y []int) (*Trained, error) {
	if spec.Classifier == nil {
		return nil, fmt.Errorf("pipeline %q has no classifier", spec.Name)
	}
	if X.Nrow() != len(y) {
		return nil, fmt.Errorf("pipeline %q: %w: %d rows, %d labels", spec.Name, classifier.ErrShapeMismatch, X.Nrow(), len(y))
	}

	ct := preprocess.ColumnTransformer{Numeric: spec.Numeric, Categorical: spec.Categorical}
	fitted, err := ct.Fit(X)
	if err != nil {
		return nil, fmt.Errorf("pipeline %q preprocessing: %w", spec.Name, err)
	}
	matrix, err := fitted.Transform(X)
	if err != nil {
		return nil, fmt.Errorf("pipeline %q preprocessing: %w", spec.Name, err)
	}
	model, err := spec.Classifier.Fit(ctx, matrix, y)
	if err != nil {
		return nil, fmt.Errorf("pipeline %q training: %w", spec.Name, err)
	}
	return &Trained{Name: spec.Name, preprocessor: fitted, model: model}, nil
}

// Predict labels every row of X using the parameters learned at fit time.
func (t *Trained) Predict(X dataframe.DataFrame) ([]int, error) {
	if X.Nrow() == 0 {
		return []int{}, nil
	}
	matrix, err := t.preprocessor.Transform(X)
	if err != nil {
		return nil, fmt.Errorf("pipeline %q preprocessing: %w", t.Name, err)
	}
	return t.model.Predict(matrix), nil
}

// FeatureNames lists the matrix columns the classifier was trained on.
func (t *Trained) FeatureNames() []string {
	return t.preprocessor.FeatureNames()
}
