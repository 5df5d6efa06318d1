// Package dataset loads the transaction tables and partitions labeled rows.
package dataset

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names of the transaction schema.
const (
	ColTransactionID = "transaction_id"
	ColCustomerID    = "customer_id"
	ColStep          = "step"
	ColType          = "type"
	ColAmount        = "amount"
	ColAge           = "age"
	ColLabel         = "is_fraud"
)

var (
	// ErrMissingInput is returned when an input file is absent or unreadable.
	ErrMissingInput = errors.New("missing input")

	// ErrSingleClass is returned when the labels hold fewer than two classes.
	ErrSingleClass = errors.New("label set contains a single class")

	// ErrTooFewMembers is returned when a class cannot appear in both partitions.
	ErrTooFewMembers = errors.New("least populated class has fewer than 2 members")

	// ErrInvalidLabel is returned when a label is not 0 or 1.
	ErrInvalidLabel = errors.New("label must be 0 or 1")
)

// Identifiers stay strings so numeric-looking ids round-trip unchanged.
var columnTypes = map[string]series.Type{
	ColTransactionID: series.String,
	ColCustomerID:    series.String,
	ColStep:          series.Int,
	ColType:          series.String,
	ColAmount:        series.Float,
	ColAge:           series.Float,
	ColLabel:         series.Int,
}

// Tables holds the raw train and test tables of a run.
type Tables struct {
	Train dataframe.DataFrame
	Test  dataframe.DataFrame
}

// Load reads the training and test files. Either file missing aborts the
// load; there is no partial result.
func Load(trainPath, testPath string) (*Tables, error) {
	train, err := LoadCSV(trainPath)
	if err != nil {
		return nil, err
	}
	test, err := LoadCSV(testPath)
	if err != nil {
		return nil, err
	}
	return &Tables{Train: train, Test: test}, nil
}

// LoadCSV reads a delimited file with a header row into a DataFrame.
func LoadCSV(path string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: expected file at %s: %v", ErrMissingInput, path, err)
	}
	defer file.Close()

	df := dataframe.ReadCSV(file, dataframe.WithTypes(columnTypes))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read csv %s: %w", path, df.Err)
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("csv file %s has no data rows", path)
	}
	return df, nil
}

// Shape returns (rows, columns) of a table.
func Shape(df dataframe.DataFrame) (int, int) {
	return df.Dims()
}

// Labels extracts the binary fraud label column.
func Labels(df dataframe.DataFrame) ([]int, error) {
	col := df.Col(ColLabel)
	if col.Err != nil {
		return nil, fmt.Errorf("column %s: %w", ColLabel, col.Err)
	}
	labels, err := col.Int()
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", ColLabel, err)
	}
	for i, v := range labels {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("%w: row %d has %d", ErrInvalidLabel, i, v)
		}
	}
	return labels, nil
}

// Shapes returns the (rows, columns) of the train and test tables.
func (t *Tables) Shapes() (train, test [2]int) {
	r, c := t.Train.Dims()
	train = [2]int{r, c}
	r, c = t.Test.Dims()
	test = [2]int{r, c}
	return train, test
}
