// Package config handles run configuration for the fraud detection workflow.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of a run. Default returns the canonical values.
type Config struct {
	Paths      PathsConf      `yaml:"paths"`
	Seed       int64          `yaml:"seed"`
	TestSize   float64        `yaml:"test_size"`
	Baseline   LogisticConf   `yaml:"baseline"`
	Advanced   ForestConf     `yaml:"advanced"`
	Features   FeatureConf    `yaml:"features"`
	Submission SubmissionConf `yaml:"submission"`
}

// PathsConf locates the inputs and the output file.
type PathsConf struct {
	Train  string `yaml:"train"`
	Test   string `yaml:"test"`
	Output string `yaml:"output"`
}

// LogisticConf configures the baseline classifier.
type LogisticConf struct {
	C       float64 `yaml:"c"` // Inverse L2 regularization strength
	MaxIter int     `yaml:"max_iter"`
}

// ForestConf configures the advanced classifier.
type ForestConf struct {
	Trees           int `yaml:"trees"`
	MinSamplesSplit int `yaml:"min_samples_split"`
	MaxDepth        int `yaml:"max_depth"` // 0 = unbounded
	Jobs            int `yaml:"jobs"`      // 0 = GOMAXPROCS
}

// FeatureConf lists the model input columns.
type FeatureConf struct {
	Numeric     []string `yaml:"numeric"`
	Categorical []string `yaml:"categorical"`
}

// SubmissionConf controls the console preview of the output table.
type SubmissionConf struct {
	PreviewRows int `yaml:"preview_rows"`
}

// Default returns the configuration of a standard run.
func Default() *Config {
	return &Config{
		Paths: PathsConf{
			Train:  "resources/train.csv",
			Test:   "resources/test.csv",
			Output: "submission.csv",
		},
		Seed:     42,
		TestSize: 0.2,
		Baseline: LogisticConf{
			C:       1.0,
			MaxIter: 1000,
		},
		Advanced: ForestConf{
			Trees:           100,
			MinSamplesSplit: 2,
		},
		Features: FeatureConf{
			Numeric:     []string{"step", "amount", "age", "hour_of_day", "day_of_week"},
			Categorical: []string{"type"},
		},
		Submission: SubmissionConf{
			PreviewRows: 5,
		},
	}
}

// Load reads a YAML file and overlays it on the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the workflow cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Paths.Train == "" || c.Paths.Test == "" || c.Paths.Output == "" {
		errs = append(errs, errors.New("paths.train, paths.test and paths.output are required"))
	}
	if c.TestSize <= 0 || c.TestSize >= 1 {
		errs = append(errs, fmt.Errorf("test_size must be in (0, 1), got %v", c.TestSize))
	}
	if c.Baseline.C <= 0 {
		errs = append(errs, fmt.Errorf("baseline.c must be positive, got %v", c.Baseline.C))
	}
	if c.Baseline.MaxIter < 1 {
		errs = append(errs, fmt.Errorf("baseline.max_iter must be >= 1, got %d", c.Baseline.MaxIter))
	}
	if c.Advanced.Trees < 1 {
		errs = append(errs, fmt.Errorf("advanced.trees must be >= 1, got %d", c.Advanced.Trees))
	}
	if c.Advanced.MinSamplesSplit < 2 {
		errs = append(errs, fmt.Errorf("advanced.min_samples_split must be >= 2, got %d", c.Advanced.MinSamplesSplit))
	}
	if c.Advanced.MaxDepth < 0 || c.Advanced.Jobs < 0 {
		errs = append(errs, errors.New("advanced.max_depth and advanced.jobs must not be negative"))
	}
	if len(c.Features.Numeric)+len(c.Features.Categorical) == 0 {
		errs = append(errs, errors.New("features: at least one column is required"))
	}
	return errors.Join(errs...)
}
