package classifier

import (
	"encoding/json"
	"fmt"
)

// Marshal serializes a fitted backend for embedding in a model artifact.
func Marshal(clf Classifier) (json.RawMessage, error) {
	data, err := json.Marshal(clf)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classifier: %w", err)
	}
	return data, nil
}

// Unmarshal reconstructs a fitted backend from artifact data. The algorithm
// tag selects the concrete type.
func Unmarshal(algorithm Algorithm, data json.RawMessage) (Classifier, error) {
	var clf Classifier
	switch algorithm {
	case RandomForest:
		clf = &randomForest{}
	case GradientBoost:
		clf = &gradientBoosting{}
	case Logistic:
		clf = &logisticRegression{}
	default:
		return nil, fmt.Errorf("unsupported algorithm: %s", algorithm)
	}

	if err := json.Unmarshal(data, clf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s classifier: %w", algorithm, err)
	}
	return clf, nil
}
