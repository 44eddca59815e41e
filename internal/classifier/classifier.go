// Package classifier implements the interchangeable binary classifier
// backends behind the risk model: a bagged tree ensemble, a boosted tree
// ensemble, and a regularized linear model. Backends are selected by a
// configuration tag and share one capability-based interface; per-feature
// importances are an optional capability only the tree backends expose.
//
// No library in the ecosystem trains tree ensembles in pure Go, so the
// learners live here, built on gonum primitives.
package classifier

import (
	"fmt"
)

// Algorithm selects a classifier backend at training time.
type Algorithm string

// Supported algorithms.
const (
	RandomForest  Algorithm = "random_forest"
	GradientBoost Algorithm = "gradient_boost"
	Logistic      Algorithm = "logistic"
)

// Algorithms lists every supported backend tag.
func Algorithms() []Algorithm {
	return []Algorithm{RandomForest, GradientBoost, Logistic}
}

// NeedsScaling reports whether the backend expects standardized features.
// Only the linear model cares; trees are scale-invariant.
func (a Algorithm) NeedsScaling() bool {
	return a == Logistic
}

// Classifier is the uniform capability interface every backend implements.
// Labels are 0/1; PredictProba returns the probability of the positive class.
type Classifier interface {
	Fit(x [][]float64, y []int) error
	Predict(x [][]float64) []int
	PredictProba(x [][]float64) []float64
}

// ImportanceProvider is the optional capability for backends with native
// per-feature importances.
type ImportanceProvider interface {
	Importances() []float64
}

// New creates a backend for the given algorithm tag with its standard
// hyperparameters. The seed makes training reproducible.
func New(algorithm Algorithm, seed int64) (Classifier, error) {
	switch algorithm {
	case RandomForest:
		return newRandomForest(seed), nil
	case GradientBoost:
		return newGradientBoosting(seed), nil
	case Logistic:
		return newLogisticRegression(), nil
	default:
		return nil, fmt.Errorf("unsupported algorithm: %s", algorithm)
	}
}

func validateTrainingSet(x [][]float64, y []int) error {
	if len(x) == 0 {
		return fmt.Errorf("empty training set")
	}
	if len(x) != len(y) {
		return fmt.Errorf("feature rows (%d) and labels (%d) differ in length", len(x), len(y))
	}

	width := len(x[0])
	if width == 0 {
		return fmt.Errorf("training rows have no features")
	}
	for i, row := range x {
		if len(row) != width {
			return fmt.Errorf("row %d has %d features, expected %d", i, len(row), width)
		}
	}

	var positives, negatives int
	for _, label := range y {
		switch label {
		case 0:
			negatives++
		case 1:
			positives++
		default:
			return fmt.Errorf("labels must be 0 or 1, got %d", label)
		}
	}
	if positives == 0 || negatives == 0 {
		return fmt.Errorf("training set needs both classes, got %d positive and %d negative", positives, negatives)
	}

	return nil
}
