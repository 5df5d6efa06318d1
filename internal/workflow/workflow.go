// Package workflow runs the fraud classification batch from raw files to
// the submission file.
package workflow

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/FlavioCFOliveira/frauddetect/internal/config"
	"github.com/FlavioCFOliveira/frauddetect/internal/dataset"
	"github.com/FlavioCFOliveira/frauddetect/internal/features"
	"github.com/FlavioCFOliveira/frauddetect/internal/pipeline"
	"github.com/FlavioCFOliveira/frauddetect/internal/report"
	"github.com/FlavioCFOliveira/frauddetect/internal/submission"
)

// Result summarizes a completed run.
type Result struct {
	TrainShape  [2]int
	TestShape   [2]int
	FraudRatio  float64
	BaselineF1  float64
	AdvancedF1  float64
	Chosen      string
	OutputPath  string
	Predictions int
}

// Run executes acquisition, transformation, selection and generation in
// order. The submission file is only written once every earlier phase has
// succeeded. Human-readable progress goes to out.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	rep := report.New(out)
	rep.Banner()
	res := &Result{}

	// Phase 1
	rep.Phase(1, "Data Acquisition")
	tables, err := dataset.Load(cfg.Paths.Train, cfg.Paths.Test)
	if err != nil {
		return nil, fmt.Errorf("phase 1 (acquisition): %w", err)
	}
	res.TrainShape, res.TestShape = tables.Shapes()
	rep.Shapes(res.TrainShape, res.TestShape)
	logger.Info("tables loaded",
		zap.Ints("train_shape", res.TrainShape[:]),
		zap.Ints("test_shape", res.TestShape[:]))

	// Phase 2
	rep.Phase(2, "Data Transformation")
	train, err := features.Transform(tables.Train, true)
	if err != nil {
		return nil, fmt.Errorf("phase 2 (transformation): train: %w", err)
	}
	test, err := features.Transform(tables.Test, false)
	if err != nil {
		return nil, fmt.Errorf("phase 2 (transformation): test: %w", err)
	}
	X, y, err := features.SplitLabel(train)
	if err != nil {
		return nil, fmt.Errorf("phase 2 (transformation): %w", err)
	}
	res.FraudRatio = report.FraudRatio(y)
	rep.Columns(X.Names())
	rep.Ratio(y)
	if counts, err := report.FraudByType(train); err == nil {
		rep.ByType(counts)
	} else {
		logger.Warn("fraud by type unavailable", zap.Error(err))
	}

	// Phase 3
	rep.Phase(3, "Model Selection")
	baseline := pipeline.Baseline(cfg, logger)
	advanced := pipeline.Advanced(cfg, logger)
	sel, err := pipeline.Select(ctx, baseline, advanced, dataset.Labeled{X: X, Y: y}, pipeline.SelectOptions{
		TestSize: cfg.TestSize,
		Seed:     cfg.Seed,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("phase 3 (selection): %w", err)
	}
	res.BaselineF1, res.AdvancedF1 = sel.Baseline.F1, sel.Advanced.F1
	res.Chosen = sel.Chosen.Name
	rep.Split(sel.TrainRows, sel.ValRows)
	rep.Selection(sel)

	// Phase 4
	rep.Phase(4, "Submission Generation")
	idCol := test.Col(dataset.ColTransactionID)
	if idCol.Err != nil {
		return nil, fmt.Errorf("phase 4 (generation): column %s: %w", dataset.ColTransactionID, idCol.Err)
	}
	ids := idCol.Records()
	testX, err := features.Drop(test, dataset.ColTransactionID)
	if err != nil {
		return nil, fmt.Errorf("phase 4 (generation): %w", err)
	}
	table, err := submission.Generate(ctx, sel.Chosen, X, y, testX, ids)
	if err != nil {
		return nil, fmt.Errorf("phase 4 (generation): %w", err)
	}
	if err := submission.Write(cfg.Paths.Output, table); err != nil {
		return nil, fmt.Errorf("phase 4 (generation): %w", err)
	}
	res.OutputPath, res.Predictions = cfg.Paths.Output, table.Len()
	rep.Submission(table, cfg.Submission.PreviewRows, cfg.Paths.Output)
	logger.Info("submission written",
		zap.String("path", res.OutputPath),
		zap.Int("rows", res.Predictions),
		zap.String("model", res.Chosen))

	return res, nil
}
