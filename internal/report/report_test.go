package report

import (
	"bytes"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlavioCFOliveira/frauddetect/internal/metrics"
	"github.com/FlavioCFOliveira/frauddetect/internal/pipeline"
	"github.com/FlavioCFOliveira/frauddetect/internal/submission"
)

// TestFraudRatio tests the label share and its console rendering.
func TestFraudRatio(t *testing.T) {
	y := make([]int, 1000)
	for i := 0; i < 5; i++ {
		y[i*100] = 1
	}
	assert.InDelta(t, 0.005, FraudRatio(y), 1e-12)
	assert.Equal(t, 0.0, FraudRatio(nil))

	var buf bytes.Buffer
	New(&buf).Ratio(y)
	assert.Contains(t, buf.String(), "0.50%")
	assert.Contains(t, buf.String(), "5 of 1000")
}

// TestFraudByType tests the ordering of the per-type tally.
func TestFraudByType(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"PAYMENT", "TRANSFER", "CASH_OUT", "TRANSFER", "CASH_OUT", "DEBIT"}, series.String, "type"),
		series.New([]int{0, 1, 1, 1, 1, 0}, series.Int, "is_fraud"),
	)

	got, err := FraudByType(df)
	require.NoError(t, err)

	expected := []TypeCount{
		{Type: "CASH_OUT", Frauds: 2, Total: 2},
		{Type: "TRANSFER", Frauds: 2, Total: 2},
		{Type: "DEBIT", Frauds: 0, Total: 1},
		{Type: "PAYMENT", Frauds: 0, Total: 1},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("FraudByType mismatch (-want +got):\n%s", diff)
	}

	_, err = FraudByType(df.Drop("type"))
	assert.Error(t, err)
}

// TestSelection tests the candidate sections.
func TestSelection(t *testing.T) {
	cm, err := metrics.Confusion([]int{0, 0, 1, 1}, []int{0, 0, 1, 0})
	require.NoError(t, err)

	sel := &pipeline.Selection{
		Baseline:   pipeline.Evaluation{Name: "Logistic Regression", F1: 2.0 / 3.0, Confusion: cm},
		Advanced:   pipeline.Evaluation{Name: "Random Forest", F1: 2.0 / 3.0, Confusion: cm},
		Chosen:     pipeline.Spec{Name: "Logistic Regression"},
		ChosenEval: pipeline.Evaluation{Name: "Logistic Regression", F1: 2.0 / 3.0, Confusion: cm},
	}

	var buf bytes.Buffer
	New(&buf).Selection(sel)
	out := buf.String()

	assert.Contains(t, out, "Random Forest")
	assert.Contains(t, out, "F1 score (fraud): 0.6667")
	assert.Contains(t, out, "[[     2      0]\n [     1      1]]\n")
	assert.Contains(t, out, "Chosen model: Logistic Regression")
}

// TestSubmission tests the preview length.
func TestSubmission(t *testing.T) {
	table := &submission.Table{
		IDs:    []string{"a", "b", "c", "d", "e", "f", "g"},
		Labels: []int{0, 0, 1, 0, 0, 0, 1},
	}

	var buf bytes.Buffer
	New(&buf).Submission(table, 5, "out.csv")
	out := buf.String()

	assert.Contains(t, out, "transaction_id")
	assert.Contains(t, out, "e ")
	assert.NotContains(t, out, "f ")
	assert.Contains(t, out, "Wrote 7 predictions to out.csv")
}

// TestNilWriter tests that a nil writer discards output.
func TestNilWriter(t *testing.T) {
	r := New(nil)
	r.Banner()
	r.Phase(1, "Data Acquisition")
	r.Shapes([2]int{1, 2}, [2]int{3, 4})
}
