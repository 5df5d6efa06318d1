package workflow

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FlavioCFOliveira/frauddetect/internal/config"
	"github.com/FlavioCFOliveira/frauddetect/internal/dataset"
)

var txTypes = []string{"CASH_OUT", "DEBIT", "PAYMENT", "TRANSFER", "CASH_IN"}

// writeTransactions writes n rows; rows listed in frauds are large
// transfers labeled 1. Without labeled the is_fraud column is omitted.
func writeTransactions(t *testing.T, path string, n int, frauds map[int]bool, labeled bool, seed int64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))

	var buf bytes.Buffer
	header := "transaction_id,customer_id,step,type,amount,age"
	if labeled {
		header += ",is_fraud"
	}
	buf.WriteString(header + "\n")
	for i := 0; i < n; i++ {
		typ := txTypes[rng.Intn(len(txTypes))]
		amount := 10 + rng.Float64()*500
		label := 0
		if frauds[i] {
			typ, amount, label = "TRANSFER", 90000+rng.Float64()*1000, 1
		}
		fmt.Fprintf(&buf, "tx%05d,c%d,%d,%s,%.2f,%d", i, rng.Intn(50), rng.Intn(24*30), typ, amount, 18+rng.Intn(60))
		if labeled {
			fmt.Fprintf(&buf, ",%d", label)
		}
		buf.WriteString("\n")
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Paths.Train = filepath.Join(dir, "train.csv")
	cfg.Paths.Test = filepath.Join(dir, "test.csv")
	cfg.Paths.Output = filepath.Join(dir, "submission.csv")
	cfg.Advanced.Trees = 10
	cfg.Advanced.Jobs = 2
	return cfg
}

func readSubmission(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

// TestRun tests a full run on an imbalanced training set.
func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeTransactions(t, cfg.Paths.Train, 1000, map[int]bool{3: true, 150: true, 420: true, 611: true, 902: true}, true, 1)
	writeTransactions(t, cfg.Paths.Test, 100, map[int]bool{7: true}, false, 2)

	var out bytes.Buffer
	res, err := Run(context.Background(), cfg, zap.NewNop(), &out)
	require.NoError(t, err)

	assert.Equal(t, [2]int{1000, 7}, res.TrainShape)
	assert.Equal(t, [2]int{100, 6}, res.TestShape)
	assert.InDelta(t, 0.005, res.FraudRatio, 1e-12)
	assert.Equal(t, 100, res.Predictions)
	assert.Contains(t, []string{"Logistic Regression", "Random Forest"}, res.Chosen)
	if res.AdvancedF1 <= res.BaselineF1 {
		assert.Equal(t, "Logistic Regression", res.Chosen)
	}

	console := out.String()
	assert.Contains(t, console, "0.50%")
	assert.Contains(t, console, "Chosen model: "+res.Chosen)
	assert.Contains(t, console, "hour_of_day")

	records := readSubmission(t, cfg.Paths.Output)
	require.Len(t, records, 101)
	assert.Equal(t, []string{"transaction_id", "is_fraud"}, records[0])
	for i, rec := range records[1:] {
		assert.Equal(t, fmt.Sprintf("tx%05d", i), rec[0])
		assert.Contains(t, []string{"0", "1"}, rec[1])
	}
}

// TestRunDeterministic tests that two runs produce the same file.
func TestRunDeterministic(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeTransactions(t, cfg.Paths.Train, 300, map[int]bool{1: true, 50: true, 99: true, 200: true}, true, 3)
	writeTransactions(t, cfg.Paths.Test, 40, nil, false, 4)

	_, err := Run(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	first, err := os.ReadFile(cfg.Paths.Output)
	require.NoError(t, err)

	_, err = Run(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	second, err := os.ReadFile(cfg.Paths.Output)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

// TestRunFailures tests that failing phases never write a submission.
func TestRunFailures(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, cfg *config.Config)
		target  error
		phase   string
	}{
		{
			name: "Missing training file",
			prepare: func(t *testing.T, cfg *config.Config) {
				writeTransactions(t, cfg.Paths.Test, 10, nil, false, 1)
			},
			target: dataset.ErrMissingInput,
			phase:  "phase 1",
		},
		{
			name: "Missing test file",
			prepare: func(t *testing.T, cfg *config.Config) {
				writeTransactions(t, cfg.Paths.Train, 50, map[int]bool{1: true, 2: true}, true, 1)
			},
			target: dataset.ErrMissingInput,
			phase:  "phase 1",
		},
		{
			name: "Single class",
			prepare: func(t *testing.T, cfg *config.Config) {
				writeTransactions(t, cfg.Paths.Train, 50, nil, true, 1)
				writeTransactions(t, cfg.Paths.Test, 10, nil, false, 2)
			},
			target: dataset.ErrSingleClass,
			phase:  "phase 3",
		},
		{
			name: "One fraud example",
			prepare: func(t *testing.T, cfg *config.Config) {
				writeTransactions(t, cfg.Paths.Train, 50, map[int]bool{4: true}, true, 1)
				writeTransactions(t, cfg.Paths.Test, 10, nil, false, 2)
			},
			target: dataset.ErrTooFewMembers,
			phase:  "phase 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t.TempDir())
			tt.prepare(t, cfg)

			_, err := Run(context.Background(), cfg, nil, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), err.Error())
			assert.True(t, strings.HasPrefix(err.Error(), tt.phase), err.Error())

			_, statErr := os.Stat(cfg.Paths.Output)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

// TestRunCancelled tests that a cancelled context stops the run.
func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeTransactions(t, cfg.Paths.Train, 100, map[int]bool{1: true, 2: true, 3: true}, true, 1)
	writeTransactions(t, cfg.Paths.Test, 10, nil, false, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg, nil, nil)
	assert.True(t, errors.Is(err, context.Canceled), fmt.Sprint(err))
	_, statErr := os.Stat(cfg.Paths.Output)
	assert.True(t, os.IsNotExist(statErr))
}

// TestRunInvalidConfig tests that bad settings are rejected before any I/O.
func TestRunInvalidConfig(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.TestSize = 1.5
	_, err := Run(context.Background(), cfg, nil, nil)
	assert.Error(t, err)
}
