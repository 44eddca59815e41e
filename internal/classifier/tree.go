package classifier

import (
	"math"
	"math/rand"
	"sort"
)

// treeNode is one node of a fitted decision tree, stored flat so trees
// serialize cleanly. Left/Right of -1 marks a leaf.
type treeNode struct {
	Threshold float64 `json:"threshold"`
	Value     float64 `json:"value"`
	Feature   int     `json:"feature"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
}

// tree is a regression tree grown by recursive variance-reduction splits.
// For 0/1 targets the variance criterion picks the same splits as Gini, so
// the one grower serves both the bagged and the boosted ensembles.
type tree struct {
	Nodes []treeNode `json:"nodes"`
}

type treeConfig struct {
	maxDepth        int
	minSamplesSplit int
	// maxFeatures limits the candidate features per split; 0 means all.
	maxFeatures int
}

// leafValueFunc turns the samples that landed in a leaf into its prediction.
// nil means the plain mean of the targets.
type leafValueFunc func(samples []int) float64

// growTree fits a tree on the sample subset idx. gainAcc, when non-nil,
// accumulates the impurity decrease attributed to each feature.
func growTree(x [][]float64, y []float64, idx []int, cfg treeConfig, rng *rand.Rand, leafValue leafValueFunc, gainAcc []float64) *tree {
	t := &tree{}
	t.grow(x, y, idx, 0, cfg, rng, leafValue, gainAcc)
	return t
}

// grow appends the subtree for the given samples and returns its node index.
func (t *tree) grow(x [][]float64, y []float64, idx []int, depth int, cfg treeConfig, rng *rand.Rand, leafValue leafValueFunc, gainAcc []float64) int {
	if depth >= cfg.maxDepth || len(idx) < cfg.minSamplesSplit || pure(y, idx) {
		return t.addLeaf(idx, y, leafValue)
	}

	feat, threshold, gain := bestSplit(x, y, idx, cfg, rng)
	if feat < 0 {
		return t.addLeaf(idx, y, leafValue)
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feat] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return t.addLeaf(idx, y, leafValue)
	}

	if gainAcc != nil {
		gainAcc[feat] += gain
	}

	node := len(t.Nodes)
	t.Nodes = append(t.Nodes, treeNode{Feature: feat, Threshold: threshold, Left: -1, Right: -1})
	leftIdx := t.grow(x, y, left, depth+1, cfg, rng, leafValue, gainAcc)
	rightIdx := t.grow(x, y, right, depth+1, cfg, rng, leafValue, gainAcc)
	t.Nodes[node].Left = leftIdx
	t.Nodes[node].Right = rightIdx
	return node
}

func (t *tree) addLeaf(idx []int, y []float64, leafValue leafValueFunc) int {
	var value float64
	if leafValue != nil {
		value = leafValue(idx)
	} else {
		for _, i := range idx {
			value += y[i]
		}
		value /= float64(len(idx))
	}

	t.Nodes = append(t.Nodes, treeNode{Feature: -1, Left: -1, Right: -1, Value: value})
	return len(t.Nodes) - 1
}

// predict walks the tree for one feature row.
func (t *tree) predict(row []float64) float64 {
	node := 0
	for {
		n := t.Nodes[node]
		if n.Feature < 0 {
			return n.Value
		}
		if row[n.Feature] <= n.Threshold {
			node = n.Left
		} else {
			node = n.Right
		}
	}
}

// bestSplit searches candidate features for the split with the largest
// sum-of-squares reduction. Returns feature -1 when no split helps.
func bestSplit(x [][]float64, y []float64, idx []int, cfg treeConfig, rng *rand.Rand) (int, float64, float64) {
	features := candidateFeatures(len(x[0]), cfg.maxFeatures, rng)

	var sum, sumSq float64
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	n := float64(len(idx))
	parentSSE := sumSq - sum*sum/n

	bestFeat := -1
	var bestThreshold, bestGain float64

	for _, feat := range features {
		// Sort sample indices by this feature's value.
		ordered := make([]int, len(idx))
		copy(ordered, idx)
		sortByFeature(ordered, x, feat)

		var leftSum, leftSumSq float64
		leftN := 0.0
		for k := 0; k < len(ordered)-1; k++ {
			i := ordered[k]
			leftSum += y[i]
			leftSumSq += y[i] * y[i]
			leftN++

			// Only split between distinct feature values.
			if x[ordered[k]][feat] == x[ordered[k+1]][feat] {
				continue
			}

			rightN := n - leftN
			rightSum := sum - leftSum
			rightSumSq := sumSq - leftSumSq

			leftSSE := leftSumSq - leftSum*leftSum/leftN
			rightSSE := rightSumSq - rightSum*rightSum/rightN
			gain := parentSSE - leftSSE - rightSSE

			if gain > bestGain {
				bestGain = gain
				bestFeat = feat
				bestThreshold = (x[ordered[k]][feat] + x[ordered[k+1]][feat]) / 2
			}
		}
	}

	if bestGain <= 1e-12 {
		return -1, 0, 0
	}
	return bestFeat, bestThreshold, bestGain
}

func candidateFeatures(total, maxFeatures int, rng *rand.Rand) []int {
	if maxFeatures <= 0 || maxFeatures >= total {
		features := make([]int, total)
		for i := range features {
			features[i] = i
		}
		return features
	}

	perm := rng.Perm(total)
	return perm[:maxFeatures]
}

func sortByFeature(idx []int, x [][]float64, feat int) {
	sort.Slice(idx, func(a, b int) bool {
		return x[idx[a]][feat] < x[idx[b]][feat]
	})
}

func pure(y []float64, idx []int) bool {
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}

func sigmoid(v float64) float64 {
	if v > 35 {
		return 1
	}
	if v < -35 {
		return 0
	}
	return 1 / (1 + math.Exp(-v))
}
