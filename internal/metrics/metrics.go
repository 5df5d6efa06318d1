// Package metrics scores binary predictions against true labels.
package metrics

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sjwhitworth/golearn/evaluation"
)

// Positive is the class scored by F1: fraud.
const Positive = 1

var classes = []int{0, 1}

func label(c int) string { return strconv.Itoa(c) }

// Confusion builds a reference -> predicted count matrix. Both classes are
// always present as rows so reports show zero counts explicitly.
func Confusion(yTrue, yPred []int) (evaluation.ConfusionMatrix, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("confusion matrix: %d labels, %d predictions", len(yTrue), len(yPred))
	}
	cm := make(evaluation.ConfusionMatrix, len(classes))
	for _, ref := range classes {
		cm[label(ref)] = make(map[string]int, len(classes))
		for _, pred := range classes {
			cm[label(ref)][label(pred)] = 0
		}
	}
	for i := range yTrue {
		if !binary(yTrue[i]) || !binary(yPred[i]) {
			return nil, fmt.Errorf("confusion matrix: row %d has label %d, prediction %d", i, yTrue[i], yPred[i])
		}
		cm[label(yTrue[i])][label(yPred[i])]++
	}
	return cm, nil
}

// ClassScores holds per-class precision, recall and F1.
type ClassScores struct {
	Class     int
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Scores returns precision, recall and F1 of class c. Undefined ratios
// (no predicted or no actual members) are reported as 0, never NaN.
func Scores(cm evaluation.ConfusionMatrix, c int) ClassScores {
	name := label(c)
	precision := zeroNaN(evaluation.GetPrecision(name, cm))
	recall := zeroNaN(evaluation.GetRecall(name, cm))
	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	support := 0
	for _, n := range cm[name] {
		support += n
	}
	return ClassScores{Class: c, Precision: precision, Recall: recall, F1: f1, Support: support}
}

// F1 is the harmonic mean of precision and recall of the fraud class.
func F1(yTrue, yPred []int) (float64, error) {
	cm, err := Confusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return Scores(cm, Positive).F1, nil
}

// Accuracy returns the share of correct predictions.
func Accuracy(cm evaluation.ConfusionMatrix) float64 {
	return zeroNaN(evaluation.GetAccuracy(cm))
}

// Report renders a per-class classification report with accuracy.
func Report(cm evaluation.ConfusionMatrix) string {
	out := fmt.Sprintf("%12s %10s %10s %10s %10s\n", "", "precision", "recall", "f1-score", "support")
	total := 0
	for _, c := range classes {
		s := Scores(cm, c)
		total += s.Support
		out += fmt.Sprintf("%12d %10.2f %10.2f %10.2f %10d\n", c, s.Precision, s.Recall, s.F1, s.Support)
	}
	out += fmt.Sprintf("\n%12s %10s %10s %10.2f %10d\n", "accuracy", "", "", Accuracy(cm), total)
	return out
}

// Matrix renders the confusion matrix as [[TN FP] [FN TP]].
func Matrix(cm evaluation.ConfusionMatrix) string {
	out := ""
	for i, ref := range classes {
		open, end := " [", "]\n"
		if i == 0 {
			open = "[["
		}
		if i == len(classes)-1 {
			end = "]]\n"
		}
		out += open
		for j, pred := range classes {
			if j > 0 {
				out += " "
			}
			out += fmt.Sprintf("%6d", cm[label(ref)][label(pred)])
		}
		out += end
	}
	return out
}

// Summary is golearn's tabular per-class summary.
func Summary(cm evaluation.ConfusionMatrix) string {
	return evaluation.GetSummary(cm)
}

func binary(v int) bool { return v == 0 || v == 1 }

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
