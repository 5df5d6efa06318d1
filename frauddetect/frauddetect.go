package frauddetect

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/FlavioCFOliveira/frauddetect/internal/classifier"
	"github.com/FlavioCFOliveira/frauddetect/internal/config"
	"github.com/FlavioCFOliveira/frauddetect/internal/dataset"
	"github.com/FlavioCFOliveira/frauddetect/internal/features"
	"github.com/FlavioCFOliveira/frauddetect/internal/preprocess"
	"github.com/FlavioCFOliveira/frauddetect/internal/workflow"
)

// Re-export common types for easier access
type (
	Config = config.Config
	Result = workflow.Result
)

// Errors
var (
	ErrMissingInput  = dataset.ErrMissingInput
	ErrSingleClass   = dataset.ErrSingleClass
	ErrTooFewMembers = dataset.ErrTooFewMembers
	ErrInvalidLabel  = dataset.ErrInvalidLabel
	ErrNotFitted     = preprocess.ErrNotFitted
	ErrMissingColumn = preprocess.ErrMissingColumn
	ErrShapeMismatch = classifier.ErrShapeMismatch
)

// Configuration
func DefaultConfig() *Config {
	return config.Default()
}

func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// Run performs a complete batch run and writes the submission file named
// by cfg. A nil logger disables logging; a nil out discards the report.
func Run(ctx context.Context, cfg *Config, logger *zap.Logger, out io.Writer) (*Result, error) {
	return workflow.Run(ctx, cfg, logger, out)
}

// Calendar features
func HourOfDay(step int) int {
	return features.HourOfDay(step)
}

func DayOfWeek(step int) int {
	return features.DayOfWeek(step)
}
