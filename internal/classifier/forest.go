package classifier

import (
	"math"
	"math/rand"
)

// randomForest is a bagged ensemble of decision trees. Each tree trains on a
// bootstrap sample and considers a random sqrt-sized feature subset per
// split; the ensemble probability is the mean of the tree outputs.
type randomForest struct {
	Trees           []*tree   `json:"trees"`
	FeatureGains    []float64 `json:"feature_gains"`
	NumTrees        int       `json:"num_trees"`
	MaxDepth        int       `json:"max_depth"`
	MinSamplesSplit int       `json:"min_samples_split"`
	Seed            int64     `json:"seed"`
}

func newRandomForest(seed int64) *randomForest {
	return &randomForest{
		NumTrees:        100,
		MaxDepth:        10,
		MinSamplesSplit: 5,
		Seed:            seed,
	}
}

// Fit trains the ensemble. Reusing the same seed reproduces the same forest.
func (f *randomForest) Fit(x [][]float64, y []int) error {
	if err := validateTrainingSet(x, y); err != nil {
		return err
	}

	targets := make([]float64, len(y))
	for i, label := range y {
		targets[i] = float64(label)
	}

	featureCount := len(x[0])
	cfg := treeConfig{
		maxDepth:        f.MaxDepth,
		minSamplesSplit: f.MinSamplesSplit,
		maxFeatures:     int(math.Ceil(math.Sqrt(float64(featureCount)))),
	}

	rng := rand.New(rand.NewSource(f.Seed))
	f.Trees = make([]*tree, 0, f.NumTrees)
	f.FeatureGains = make([]float64, featureCount)

	for t := 0; t < f.NumTrees; t++ {
		idx := make([]int, len(x))
		for i := range idx {
			idx[i] = rng.Intn(len(x))
		}
		f.Trees = append(f.Trees, growTree(x, targets, idx, cfg, rng, nil, f.FeatureGains))
	}

	return nil
}

// PredictProba returns the mean tree output per row.
func (f *randomForest) PredictProba(x [][]float64) []float64 {
	probs := make([]float64, len(x))
	for i, row := range x {
		var sum float64
		for _, t := range f.Trees {
			sum += t.predict(row)
		}
		p := sum / float64(len(f.Trees))
		probs[i] = math.Min(1, math.Max(0, p))
	}
	return probs
}

// Predict thresholds the ensemble probability at 0.5.
func (f *randomForest) Predict(x [][]float64) []int {
	probs := f.PredictProba(x)
	labels := make([]int, len(probs))
	for i, p := range probs {
		if p > 0.5 {
			labels[i] = 1
		}
	}
	return labels
}

// Importances returns the accumulated impurity decrease per feature,
// normalized to sum to one.
func (f *randomForest) Importances() []float64 {
	return normalizeGains(f.FeatureGains)
}

func normalizeGains(gains []float64) []float64 {
	if gains == nil {
		return nil
	}
	var total float64
	for _, g := range gains {
		total += g
	}
	out := make([]float64, len(gains))
	if total <= 0 {
		return out
	}
	for i, g := range gains {
		out[i] = g / total
	}
	return out
}
