// Package submission produces and persists the labeled test predictions.
package submission

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/FlavioCFOliveira/frauddetect/internal/dataset"
	"github.com/FlavioCFOliveira/frauddetect/internal/pipeline"
)

// Table pairs each test transaction id with its predicted label, in test
// row order.
type Table struct {
	IDs    []string
	Labels []int
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.IDs) }

// Generate trains a fresh pipeline from spec on the full labeled data and
// predicts every test row. The model used during selection is not reused.
func Generate(ctx context.Context, spec pipeline.Spec, fullX dataframe.DataFrame, fullY []int, testX dataframe.DataFrame, testIDs []string) (*Table, error) {
	if testX.Nrow() != len(testIDs) {
		return nil, fmt.Errorf("test set has %d rows but %d ids", testX.Nrow(), len(testIDs))
	}

	trained, err := pipeline.Fit(ctx, spec, fullX, fullY)
	if err != nil {
		return nil, fmt.Errorf("final training: %w", err)
	}
	labels, err := trained.Predict(testX)
	if err != nil {
		return nil, fmt.Errorf("predict test set: %w", err)
	}
	if len(labels) != len(testIDs) {
		return nil, fmt.Errorf("got %d predictions for %d test rows", len(labels), len(testIDs))
	}

	ids := make([]string, len(testIDs))
	copy(ids, testIDs)
	return &Table{IDs: ids, Labels: labels}, nil
}

// DataFrame returns the table with the transaction_id and is_fraud columns.
func (t *Table) DataFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New(t.IDs, series.String, dataset.ColTransactionID),
		series.New(t.Labels, series.Int, dataset.ColLabel),
	)
}

// Head returns the first n rows, or all rows if there are fewer.
func (t *Table) Head(n int) *Table {
	n = max(0, min(n, t.Len()))
	return &Table{IDs: t.IDs[:n], Labels: t.Labels[:n]}
}

// Write stores t as CSV at path with a header row and no index column.
// The content goes to a temporary file in the same directory that is then
// renamed over path, so an existing file is replaced whole or not at all.
func Write(path string, t *Table) error {
	if len(t.IDs) != len(t.Labels) {
		return fmt.Errorf("submission has %d ids and %d labels", len(t.IDs), len(t.Labels))
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := t.DataFrame().WriteCSV(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write submission: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write submission: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("write submission: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
