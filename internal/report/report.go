// Package report prints the human-readable progress of a workflow run.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/FlavioCFOliveira/frauddetect/internal/dataset"
	"github.com/FlavioCFOliveira/frauddetect/internal/metrics"
	"github.com/FlavioCFOliveira/frauddetect/internal/pipeline"
	"github.com/FlavioCFOliveira/frauddetect/internal/submission"
)

const rule = "============================================================="

// Reporter writes plain-text sections to an output stream. Write errors are
// ignored; the report is informational only.
type Reporter struct {
	w io.Writer
}

// New returns a Reporter writing to w. A nil w discards the output.
func New(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w}
}

func (r *Reporter) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

// Banner prints the run title.
func (r *Reporter) Banner() {
	r.printf("%s\n  Fraud Detection - Batch Classification\n%s\n\n", rule, rule)
}

// Phase prints a numbered section heading.
func (r *Reporter) Phase(n int, title string) {
	r.printf("--- Phase %d: %s ---\n", n, title)
}

// Shapes prints the dimensions of both input tables.
func (r *Reporter) Shapes(train, test [2]int) {
	r.printf("Training set: %d rows x %d columns\n", train[0], train[1])
	r.printf("Test set:     %d rows x %d columns\n\n", test[0], test[1])
}

// Columns prints the feature columns of a transformed table.
func (r *Reporter) Columns(names []string) {
	r.printf("Feature columns: %s\n", strings.Join(names, ", "))
}

// FraudRatio returns the share of fraud labels in y, or 0 for no rows.
func FraudRatio(y []int) float64 {
	if len(y) == 0 {
		return 0
	}
	frauds := 0
	for _, v := range y {
		frauds += v
	}
	return float64(frauds) / float64(len(y))
}

// Ratio prints the fraud counts and percentage of a label set.
func (r *Reporter) Ratio(y []int) {
	frauds := 0
	for _, v := range y {
		frauds += v
	}
	r.printf("Fraudulent transactions: %d of %d\n", frauds, len(y))
	r.printf("Fraud ratio: %.2f%%\n", FraudRatio(y)*100)
}

// TypeCount is the fraud tally of one transaction type.
type TypeCount struct {
	Type   string
	Frauds int
	Total  int
}

// FraudByType counts fraud labels per transaction type, ordered by fraud
// count descending and then by type name.
func FraudByType(df dataframe.DataFrame) ([]TypeCount, error) {
	col := df.Col(dataset.ColType)
	if col.Err != nil {
		return nil, fmt.Errorf("column %s: %w", dataset.ColType, col.Err)
	}
	types := col.Records()
	labels, err := dataset.Labels(df)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]*TypeCount)
	for i, name := range types {
		tc, ok := byType[name]
		if !ok {
			tc = &TypeCount{Type: name}
			byType[name] = tc
		}
		tc.Total++
		tc.Frauds += labels[i]
	}

	out := make([]TypeCount, 0, len(byType))
	for _, tc := range byType {
		out = append(out, *tc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frauds != out[j].Frauds {
			return out[i].Frauds > out[j].Frauds
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

// ByType prints the per-type fraud tally.
func (r *Reporter) ByType(counts []TypeCount) {
	r.printf("Fraud by transaction type:\n")
	for _, tc := range counts {
		r.printf("  %-12s %6d of %d\n", tc.Type, tc.Frauds, tc.Total)
	}
	r.printf("\n")
}

// Split prints the sizes of the validation partitions.
func (r *Reporter) Split(trainRows, valRows int) {
	r.printf("Training samples:   %d\n", trainRows)
	r.printf("Validation samples: %d\n\n", valRows)
}

// Candidate prints the validation report of one model.
func (r *Reporter) Candidate(ev pipeline.Evaluation) {
	r.printf("%s\n", ev.Name)
	r.printf("%s\n", metrics.Report(ev.Confusion))
	r.printf("Confusion matrix:\n%s", metrics.Matrix(ev.Confusion))
	r.printf("F1 score (fraud): %.4f\n\n", ev.F1)
}

// Selection prints both candidates and the chosen model.
func (r *Reporter) Selection(sel *pipeline.Selection) {
	r.Candidate(sel.Baseline)
	r.Candidate(sel.Advanced)
	r.printf("Chosen model: %s (F1 %.4f)\n\n", sel.Chosen.Name, sel.ChosenEval.F1)
}

// Submission prints a preview of the output table and where it was written.
func (r *Reporter) Submission(t *submission.Table, preview int, path string) {
	head := t.Head(preview)
	r.printf("%-20s %s\n", dataset.ColTransactionID, dataset.ColLabel)
	for i := range head.IDs {
		r.printf("%-20s %d\n", head.IDs[i], head.Labels[i])
	}
	r.printf("\nWrote %d predictions to %s\n", t.Len(), path)
}
