// Package main - Fraud Detection batch run
// Loads the transaction tables, selects the better of two classifiers and
// writes the submission file.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FlavioCFOliveira/frauddetect/internal/config"
	"github.com/FlavioCFOliveira/frauddetect/internal/workflow"
)

var (
	configPath string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "frauddetect",
	Short: "Batch fraud classification of financial transactions",
	Long: `frauddetect labels test transactions as fraudulent (1) or legitimate (0).

It trains a logistic regression baseline and a random forest on the labeled
training file, keeps the one with the higher fraud F1 on a stratified
validation split, retrains it on all labeled rows and writes
transaction_id,is_fraud for every test row.

Run without arguments to use resources/train.csv and resources/test.csv.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file (default: built-in settings)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := workflow.Run(ctx, cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	logger.Debug("run complete",
		zap.String("model", res.Chosen),
		zap.Float64("baseline_f1", res.BaselineF1),
		zap.Float64("advanced_f1", res.AdvancedF1))
	return nil
}
