// Package preprocess turns feature tables into standardized numeric matrices.
//
// Parameters are learned once by Fit and never change afterwards; applying
// a fitted transformer to new rows only reads them.
package preprocess

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNotFitted is returned when a transformer is used before Fit.
	ErrNotFitted = errors.New("transformer is not fitted")

	// ErrMissingColumn is returned when an expected column is absent.
	ErrMissingColumn = errors.New("missing column")
)

// Scaler standardizes numeric columns to zero mean and unit variance.
type Scaler struct {
	Columns []string
	Mean    []float64
	Scale   []float64 // population standard deviation, 1 for constant columns
}

// FitScaler learns mean and population standard deviation per column.
func FitScaler(df dataframe.DataFrame, cols []string) (*Scaler, error) {
	s := &Scaler{
		Columns: append([]string(nil), cols...),
		Mean:    make([]float64, len(cols)),
		Scale:   make([]float64, len(cols)),
	}
	for j, name := range cols {
		x, err := numericColumn(df, name)
		if err != nil {
			return nil, err
		}
		mean := stat.Mean(x, nil)
		std := math.Sqrt(stat.Moment(2, x, nil))
		if std < 1e-12 || math.IsNaN(std) {
			std = 1
		}
		s.Mean[j] = mean
		s.Scale[j] = std
	}
	return s, nil
}

// apply writes standardized values into dst starting at column offset.
func (s *Scaler) apply(df dataframe.DataFrame, dst *mat.Dense, offset int) error {
	for j, name := range s.Columns {
		x, err := numericColumn(df, name)
		if err != nil {
			return err
		}
		for i, v := range x {
			dst.Set(i, offset+j, (v-s.Mean[j])/s.Scale[j])
		}
	}
	return nil
}

// OneHot expands a categorical column into one indicator per category seen
// during fitting. Categories are sorted, so the column order is stable.
type OneHot struct {
	Column     string
	Categories []string

	index map[string]int
}

// FitOneHot learns the category vocabulary of a column.
func FitOneHot(df dataframe.DataFrame, col string) (*OneHot, error) {
	values, err := categoricalColumn(df, col)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, v := range values {
		seen[v] = true
	}
	cats := make([]string, 0, len(seen))
	for v := range seen {
		cats = append(cats, v)
	}
	sort.Strings(cats)

	return newOneHot(col, cats), nil
}

func newOneHot(col string, cats []string) *OneHot {
	index := make(map[string]int, len(cats))
	for i, c := range cats {
		index[c] = i
	}
	return &OneHot{Column: col, Categories: cats, index: index}
}

// Encode returns the indicator position of v, or -1 for unseen values.
func (o *OneHot) Encode(v string) int {
	if i, ok := o.index[v]; ok {
		return i
	}
	return -1
}

// apply writes indicators into dst starting at column offset. Unseen
// categories leave the row's indicators at zero.
func (o *OneHot) apply(df dataframe.DataFrame, dst *mat.Dense, offset int) error {
	values, err := categoricalColumn(df, o.Column)
	if err != nil {
		return err
	}
	for i, v := range values {
		if k := o.Encode(v); k >= 0 {
			dst.Set(i, offset+k, 1)
		}
	}
	return nil
}

func numericColumn(df dataframe.DataFrame, name string) ([]float64, error) {
	col := df.Col(name)
	if col.Err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	x := col.Float()
	for i, v := range x {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("column %s row %d: not a number", name, i)
		}
	}
	return x, nil
}

func categoricalColumn(df dataframe.DataFrame, name string) ([]string, error) {
	col := df.Col(name)
	if col.Err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return col.Records(), nil
}
