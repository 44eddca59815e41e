package risk

import (
	"fmt"
	"math"
	"sort"
)

// UnseenCategory is the sentinel encoded value for categorical values that
// were not present in the training data. Inference never refits encoders.
const UnseenCategory = -1

// LabelEncoder maps categorical string values onto stable integer codes.
// Classes are sorted at fit time so the mapping is independent of input
// order; only Classes is persisted and the index is rebuilt on load.
type LabelEncoder struct {
	Classes []string `json:"classes"`

	index map[string]int
}

// FitLabelEncoder builds an encoder over the distinct values in vals.
func FitLabelEncoder(vals []string) *LabelEncoder {
	seen := make(map[string]bool, len(vals))
	for _, v := range vals {
		seen[v] = true
	}

	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)

	enc := &LabelEncoder{Classes: classes}
	enc.buildIndex()
	return enc
}

// Transform encodes one value. Unseen values map to UnseenCategory.
func (e *LabelEncoder) Transform(value string) float64 {
	if e.index == nil {
		e.buildIndex()
	}
	if code, ok := e.index[value]; ok {
		return float64(code)
	}
	return UnseenCategory
}

func (e *LabelEncoder) buildIndex() {
	e.index = make(map[string]int, len(e.Classes))
	for i, class := range e.Classes {
		e.index[class] = i
	}
}

// StandardScaler standardizes features to zero mean and unit variance.
// Fit only during training and only for backends that need scaling.
type StandardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler computes per-column mean and standard deviation.
func FitScaler(x [][]float64) *StandardScaler {
	if len(x) == 0 {
		return &StandardScaler{}
	}

	cols := len(x[0])
	mean := make([]float64, cols)
	std := make([]float64, cols)

	for _, row := range x {
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(x))
	for j := range mean {
		mean[j] /= n
	}

	for _, row := range x {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
		if std[j] == 0 {
			std[j] = 1 // constant column, leave values centered
		}
	}

	return &StandardScaler{Mean: mean, Std: std}
}

// Transform returns a standardized copy of x.
func (s *StandardScaler) Transform(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("row %d has %d features, scaler was fit on %d", i, len(row), len(s.Mean))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out, nil
}
