package classifier

import (
	"context"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"
)

// progressRecorder logs solver progress every Interval major iterations and
// stops the solver once ctx is done.
type progressRecorder struct {
	ctx      context.Context
	logger   *zap.Logger
	model    string
	Interval int
}

func newProgressRecorder(ctx context.Context, logger *zap.Logger, model string, interval int) *progressRecorder {
	return &progressRecorder{ctx: ctx, logger: logger, model: model, Interval: interval}
}

// Init implements optimize.Recorder.
func (r *progressRecorder) Init() error {
	return r.ctx.Err()
}

// Record implements optimize.Recorder.
func (r *progressRecorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	if op&optimize.MajorIteration == 0 || r.Interval <= 0 {
		return nil
	}
	if stats.MajorIterations%r.Interval == 0 {
		r.logger.Debug("solver progress",
			zap.String("model", r.model),
			zap.Int("iteration", stats.MajorIterations),
			zap.Float64("objective", loc.F))
	}
	return nil
}
