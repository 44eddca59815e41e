package classifier

import (
	"fmt"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// AUC computes the area under the ROC curve for probability scores against
// binary labels.
func AUC(scores []float64, labels []int) (float64, error) {
	if len(scores) != len(labels) {
		return 0, fmt.Errorf("scores (%d) and labels (%d) differ in length", len(scores), len(labels))
	}
	if len(scores) == 0 {
		return 0, fmt.Errorf("no scores to evaluate")
	}

	y := make([]float64, len(scores))
	classes := make([]bool, len(labels))
	copy(y, scores)
	for i, label := range labels {
		classes[i] = label == 1
	}

	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}

// Accuracy is the fraction of predictions matching their labels.
func Accuracy(predictions, labels []int) (float64, error) {
	if len(predictions) != len(labels) {
		return 0, fmt.Errorf("predictions (%d) and labels (%d) differ in length", len(predictions), len(labels))
	}
	if len(predictions) == 0 {
		return 0, fmt.Errorf("no predictions to evaluate")
	}

	correct := 0
	for i, p := range predictions {
		if p == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(predictions)), nil
}
