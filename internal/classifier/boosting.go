package classifier

import (
	"math"
	"math/rand"
)

// gradientBoosting is a boosted ensemble of shallow regression trees fit to
// the log-loss gradient, with Newton leaf values and a shrinkage factor.
type gradientBoosting struct {
	Trees           []*tree   `json:"trees"`
	FeatureGains    []float64 `json:"feature_gains"`
	InitScore       float64   `json:"init_score"`
	LearningRate    float64   `json:"learning_rate"`
	NumRounds       int       `json:"num_rounds"`
	MaxDepth        int       `json:"max_depth"`
	MinSamplesSplit int       `json:"min_samples_split"`
	Seed            int64     `json:"seed"`
}

func newGradientBoosting(seed int64) *gradientBoosting {
	return &gradientBoosting{
		NumRounds:       100,
		MaxDepth:        6,
		MinSamplesSplit: 2,
		LearningRate:    0.1,
		Seed:            seed,
	}
}

// Fit trains the ensemble stagewise on the residuals of the running score.
func (g *gradientBoosting) Fit(x [][]float64, y []int) error {
	if err := validateTrainingSet(x, y); err != nil {
		return err
	}

	n := len(x)
	targets := make([]float64, n)
	var positives float64
	for i, label := range y {
		targets[i] = float64(label)
		positives += float64(label)
	}

	// Start from the log-odds of the base rate.
	base := positives / float64(n)
	base = math.Min(1-1e-6, math.Max(1e-6, base))
	g.InitScore = math.Log(base / (1 - base))

	featureCount := len(x[0])
	cfg := treeConfig{
		maxDepth:        g.MaxDepth,
		minSamplesSplit: g.MinSamplesSplit,
	}

	rng := rand.New(rand.NewSource(g.Seed))
	g.Trees = make([]*tree, 0, g.NumRounds)
	g.FeatureGains = make([]float64, featureCount)

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = g.InitScore
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	residuals := make([]float64, n)
	probs := make([]float64, n)

	for round := 0; round < g.NumRounds; round++ {
		for i := range scores {
			probs[i] = sigmoid(scores[i])
			residuals[i] = targets[i] - probs[i]
		}

		// Newton step per leaf: sum of residuals over sum of hessians.
		leafValue := func(samples []int) float64 {
			var num, den float64
			for _, s := range samples {
				num += residuals[s]
				den += probs[s] * (1 - probs[s])
			}
			if den < 1e-12 {
				return 0
			}
			return num / den
		}

		t := growTree(x, residuals, idx, cfg, rng, leafValue, g.FeatureGains)
		g.Trees = append(g.Trees, t)

		for i, row := range x {
			scores[i] += g.LearningRate * t.predict(row)
		}
	}

	return nil
}

// PredictProba returns the sigmoid of the accumulated boosted score.
func (g *gradientBoosting) PredictProba(x [][]float64) []float64 {
	probs := make([]float64, len(x))
	for i, row := range x {
		score := g.InitScore
		for _, t := range g.Trees {
			score += g.LearningRate * t.predict(row)
		}
		probs[i] = sigmoid(score)
	}
	return probs
}

// Predict thresholds the boosted probability at 0.5.
func (g *gradientBoosting) Predict(x [][]float64) []int {
	probs := g.PredictProba(x)
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
func (g *gradientBoosting) Importances() []float64 {
	return normalizeGains(g.FeatureGains)
}
