package classifier

// logisticRegression is an L2-regularized linear model trained by full-batch
// gradient descent. It expects standardized features; the risk model fits a
// scaler for it at training time and reapplies it at inference.
type logisticRegression struct {
	Weights      []float64 `json:"weights"`
	Bias         float64   `json:"bias"`
	LearningRate float64   `json:"learning_rate"`
	Lambda       float64   `json:"lambda"`
	Epochs       int       `json:"epochs"`
}

func newLogisticRegression() *logisticRegression {
	return &logisticRegression{
		LearningRate: 0.1,
		Lambda:       0.01,
		Epochs:       500,
	}
}

// Fit trains the model. Training is deterministic: weights start at zero and
// the gradient is computed over the full batch each epoch.
func (l *logisticRegression) Fit(x [][]float64, y []int) error {
	if err := validateTrainingSet(x, y); err != nil {
		return err
	}

	n := float64(len(x))
	featureCount := len(x[0])
	l.Weights = make([]float64, featureCount)
	l.Bias = 0

	grad := make([]float64, featureCount)

	for epoch := 0; epoch < l.Epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var biasGrad float64

		for i, row := range x {
			p := sigmoid(l.score(row))
			diff := p - float64(y[i])
			for j, v := range row {
				grad[j] += diff * v
			}
			biasGrad += diff
		}

		for j := range l.Weights {
			l.Weights[j] -= l.LearningRate * (grad[j]/n + l.Lambda*l.Weights[j])
		}
		l.Bias -= l.LearningRate * biasGrad / n
	}

	return nil
}

// PredictProba returns the positive-class probability per row.
func (l *logisticRegression) PredictProba(x [][]float64) []float64 {
	probs := make([]float64, len(x))
	for i, row := range x {
		probs[i] = sigmoid(l.score(row))
	}
	return probs
}

// Predict thresholds the probability at 0.5.
func (l *logisticRegression) Predict(x [][]float64) []int {
	probs := l.PredictProba(x)
	labels := make([]int, len(probs))
	for i, p := range probs {
		if p > 0.5 {
			labels[i] = 1
		}
	}
	return labels
}

func (l *logisticRegression) score(row []float64) float64 {
	score := l.Bias
	for j, w := range l.Weights {
		score += w * row[j]
	}
	return score
}
