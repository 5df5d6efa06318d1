// Package features derives model inputs from raw transaction tables.
package features

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/FlavioCFOliveira/frauddetect/internal/dataset"
)

// Derived column names.
const (
	ColHourOfDay = "hour_of_day"
	ColDayOfWeek = "day_of_week"
)

const (
	hoursPerDay = 24
	daysPerWeek = 7
)

// HourOfDay returns step mod 24, always in [0, 23].
func HourOfDay(step int) int {
	return floorMod(step, hoursPerDay)
}

// DayOfWeek returns (step div 24) mod 7, always in [0, 6].
// Day 0 is the first day of the modeling week, not a calendar weekday.
func DayOfWeek(step int) int {
	return floorMod(floorDiv(step, hoursPerDay), daysPerWeek)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// Transform appends the calendar features and drops identifier columns.
// customer_id is always dropped; transaction_id only in training mode, so
// test callers keep it for the submission join. Rows are neither filtered
// nor reordered.
func Transform(df dataframe.DataFrame, training bool) (dataframe.DataFrame, error) {
	col := df.Col(dataset.ColStep)
	if col.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("column %s: %w", dataset.ColStep, col.Err)
	}
	steps, err := col.Int()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("column %s: %w", dataset.ColStep, err)
	}

	hours := make([]int, len(steps))
	days := make([]int, len(steps))
	for i, s := range steps {
		hours[i] = HourOfDay(s)
		days[i] = DayOfWeek(s)
	}

	out := df.
		Mutate(series.New(hours, series.Int, ColHourOfDay)).
		Mutate(series.New(days, series.Int, ColDayOfWeek))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("add calendar features: %w", out.Err)
	}

	drop := []string{dataset.ColCustomerID}
	if training {
		drop = append(drop, dataset.ColTransactionID)
	}
	return Drop(out, drop...)
}

// Drop removes the named columns. Names not present are ignored, so
// repeated application is a no-op.
func Drop(df dataframe.DataFrame, cols ...string) (dataframe.DataFrame, error) {
	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}

	var drop []string
	for _, c := range cols {
		if present[c] {
			drop = append(drop, c)
		}
	}
	if len(drop) == 0 {
		return df, nil
	}

	out := df.Drop(drop)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("drop columns %v: %w", drop, out.Err)
	}
	return out, nil
}

// SplitLabel separates the fraud label from the feature columns.
func SplitLabel(df dataframe.DataFrame) (dataframe.DataFrame, []int, error) {
	y, err := dataset.Labels(df)
	if err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	X, err := Drop(df, dataset.ColLabel)
	if err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	return X, y, nil
}
