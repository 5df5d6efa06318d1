package submission

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlavioCFOliveira/frauddetect/internal/config"
	"github.com/FlavioCFOliveira/frauddetect/internal/pipeline"
)

func frame(amounts []float64, types []string) dataframe.DataFrame {
	return dataframe.New(
		series.New(amounts, series.Float, "amount"),
		series.New(types, series.String, "type"),
	)
}

func baseline() pipeline.Spec {
	cfg := config.Default()
	cfg.Features.Numeric = []string{"amount"}
	cfg.Features.Categorical = []string{"type"}
	return pipeline.Baseline(cfg, nil)
}

// TestGenerate tests that predictions follow test row order.
func TestGenerate(t *testing.T) {
	fullX := frame(
		[]float64{1, 2, 3, 4, 100, 110, 5, 6, 120, 7},
		[]string{"PAYMENT", "PAYMENT", "DEBIT", "PAYMENT", "TRANSFER", "TRANSFER", "DEBIT", "PAYMENT", "TRANSFER", "DEBIT"},
	)
	fullY := []int{0, 0, 0, 0, 1, 1, 0, 0, 1, 0}
	testX := frame([]float64{115, 2, 105, 3}, []string{"TRANSFER", "PAYMENT", "TRANSFER", "CASH_OUT"})
	ids := []string{"t9", "t1", "t7", "t3"}

	table, err := Generate(context.Background(), baseline(), fullX, fullY, testX, ids)
	require.NoError(t, err)

	assert.Equal(t, ids, table.IDs)
	assert.Equal(t, []int{1, 0, 1, 0}, table.Labels)

	ids[0] = "changed"
	assert.Equal(t, "t9", table.IDs[0])
}

// TestGenerateMismatch tests that ids must cover every test row.
func TestGenerateMismatch(t *testing.T) {
	x := frame([]float64{1, 2}, []string{"A", "B"})
	_, err := Generate(context.Background(), baseline(), x, []int{0, 1}, x, []string{"only-one"})
	assert.Error(t, err)
}

// TestHead tests the preview bounds.
func TestHead(t *testing.T) {
	table := &Table{IDs: []string{"a", "b", "c"}, Labels: []int{0, 1, 0}}

	tests := []struct {
		n        int
		expected int
	}{
		{2, 2},
		{5, 3},
		{0, 0},
		{-1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, table.Head(tt.n).Len())
	}
	assert.Equal(t, []string{"a", "b"}, table.Head(2).IDs)
}

// TestWrite tests the CSV layout and the silent overwrite.
func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "submission.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content\n"), 0o644))

	table := &Table{IDs: []string{"0042", "t2", "t3"}, Labels: []int{1, 0, 0}}
	require.NoError(t, Write(path, table))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "transaction_id,is_fraud\n0042,1\nt2,0\nt3,0\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "submission.csv", entries[0].Name())
}

// TestWriteFailureKeepsExisting tests that a failed write leaves the old
// file untouched.
func TestWriteFailureKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "submission.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o644))

	err := Write(path, &Table{IDs: []string{"a"}, Labels: []int{}})
	assert.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))
}

// TestWriteMissingDirectory tests the error path of an unusable location.
func TestWriteMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "submission.csv")
	err := Write(path, &Table{IDs: []string{"a"}, Labels: []int{0}})
	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
