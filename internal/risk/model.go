// Package risk wraps a trainable stockout classifier together with the
// encoder, scaler, and feature-ordering bookkeeping that must stay
// consistent between training and inference.
package risk

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/Veraticus/stocksense/internal/classifier"
	"github.com/Veraticus/stocksense/internal/feature"
	"github.com/Veraticus/stocksense/internal/model"
)

// Model is the trainable stockout-risk classifier. A zero Model is untrained;
// training or loading an artifact moves it into the trained state. Once
// trained it is immutable and safe to share across concurrent predictions.
type Model struct {
	trainedAt    time.Time
	clf          classifier.Classifier
	encoders     map[string]*LabelEncoder
	scaler       *StandardScaler
	algorithm    classifier.Algorithm
	featureNames []string
	trained      bool
}

// TrainOptions configures a training run.
type TrainOptions struct {
	Algorithm    classifier.Algorithm
	Seed         int64
	TestFraction float64
}

// TrainingReport summarizes a completed training run. Metrics may be zero
// when their computation failed; metric failures are logged, never fatal.
type TrainingReport struct {
	Algorithm classifier.Algorithm
	AUCScore  float64
	Accuracy  float64
}

// Importance is one entry of a feature-importance ranking.
type Importance struct {
	Feature string
	Score   float64
}

// NewModel creates an untrained model.
func NewModel() *Model {
	return &Model{}
}

// Train fits the selected backend on the labeled data: engineer features,
// fit one label encoder per categorical column, optionally fit a scaler,
// then train on an 80/20 stratified split and evaluate on the holdout.
// On success the feature-name ordering is frozen into the model.
func (m *Model) Train(ctx context.Context, data []model.LabeledProduct, opts TrainOptions) (*TrainingReport, error) {
	if opts.Algorithm == "" {
		opts.Algorithm = classifier.RandomForest
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	if opts.TestFraction <= 0 || opts.TestFraction >= 1 {
		opts.TestFraction = 0.2
	}

	slog.Info("Starting model training",
		"algorithm", opts.Algorithm,
		"samples", len(data))

	products := make([]model.Product, len(data))
	labels := make([]int, len(data))
	for i, row := range data {
		products[i] = row.Product
		if row.IsHighRisk {
			labels[i] = 1
		}
	}

	enriched, err := feature.Engineer(products)
	if err != nil {
		return nil, fmt.Errorf("feature engineering failed: %w", err)
	}
	if len(enriched) == 0 {
		return nil, fmt.Errorf("no training data")
	}

	encoders, err := fitEncoders(enriched)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(featureNames))
	copy(names, featureNames)

	x, err := buildMatrix(enriched, names, encoders)
	if err != nil {
		return nil, fmt.Errorf("failed to build feature matrix: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	trainIdx, testIdx := stratifiedSplit(labels, opts.TestFraction, rng)

	trainX, trainY := subset(x, labels, trainIdx)
	testX, testY := subset(x, labels, testIdx)

	var scaler *StandardScaler
	if opts.Algorithm.NeedsScaling() {
		scaler = FitScaler(trainX)
		if trainX, err = scaler.Transform(trainX); err != nil {
			return nil, fmt.Errorf("failed to scale training features: %w", err)
		}
		if testX, err = scaler.Transform(testX); err != nil {
			return nil, fmt.Errorf("failed to scale holdout features: %w", err)
		}
	}

	clf, err := classifier.New(opts.Algorithm, opts.Seed)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := clf.Fit(trainX, trainY); err != nil {
		return nil, fmt.Errorf("failed to fit %s classifier: %w", opts.Algorithm, err)
	}

	report := &TrainingReport{Algorithm: opts.Algorithm}
	if len(testX) > 0 {
		if auc, aucErr := classifier.AUC(clf.PredictProba(testX), testY); aucErr != nil {
			slog.Warn("AUC computation failed", "error", aucErr)
		} else {
			report.AUCScore = auc
		}
		if acc, accErr := classifier.Accuracy(clf.Predict(testX), testY); accErr != nil {
			slog.Warn("Accuracy computation failed", "error", accErr)
		} else {
			report.Accuracy = acc
		}
	}

	m.clf = clf
	m.algorithm = opts.Algorithm
	m.encoders = encoders
	m.scaler = scaler
	m.featureNames = names
	m.trainedAt = time.Now().UTC()
	m.trained = true

	slog.Info("Model training completed",
		"algorithm", report.Algorithm,
		"auc", report.AUCScore,
		"accuracy", report.Accuracy)

	return report, nil
}

// Predict runs model-path inference: re-engineer features, re-apply the
// frozen encoders (unseen categories map to the sentinel, encoders are never
// refit here), apply the scaler when one was fit, and classify. Returns
// ErrNotTrained before any train/load; all other failures are wrapped in
// InferenceError so the prediction service can route them to the heuristic.
func (m *Model) Predict(products []model.Product) ([]int, []float64, error) {
	if !m.trained {
		return nil, nil, ErrNotTrained
	}

	enriched, err := feature.Engineer(products)
	if err != nil {
		return nil, nil, &InferenceError{Err: err}
	}

	x, err := buildMatrix(enriched, m.featureNames, m.encoders)
	if err != nil {
		return nil, nil, &InferenceError{Err: err}
	}

	if m.scaler != nil {
		if x, err = m.scaler.Transform(x); err != nil {
			return nil, nil, &InferenceError{Err: err}
		}
	}

	return m.clf.Predict(x), m.clf.PredictProba(x), nil
}

// FeatureImportance returns the importance ranking, highest first, for
// backends that natively expose importances. Returns nil, not an error,
// for backends that do not.
func (m *Model) FeatureImportance() []Importance {
	if !m.trained {
		return nil
	}

	provider, ok := m.clf.(classifier.ImportanceProvider)
	if !ok {
		slog.Warn("Classifier does not expose feature importances", "algorithm", m.algorithm)
		return nil
	}

	scores := provider.Importances()
	out := make([]Importance, 0, len(scores))
	for i, score := range scores {
		if i >= len(m.featureNames) {
			break
		}
		out = append(out, Importance{Feature: m.featureNames[i], Score: score})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}

// Trained reports whether the model can serve model-path predictions.
func (m *Model) Trained() bool {
	return m.trained
}

// Algorithm returns the backend tag the model was trained with.
func (m *Model) Algorithm() classifier.Algorithm {
	return m.algorithm
}

// FeatureNames returns a copy of the frozen feature ordering.
func (m *Model) FeatureNames() []string {
	out := make([]string, len(m.featureNames))
	copy(out, m.featureNames)
	return out
}

func fitEncoders(enriched []feature.Enriched) (map[string]*LabelEncoder, error) {
	encoders := make(map[string]*LabelEncoder, len(categoricalColumns))
	for _, column := range categoricalColumns {
		vals := make([]string, len(enriched))
		for i, row := range enriched {
			v, err := categoricalValue(column, row)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		encoders[column] = FitLabelEncoder(vals)
	}
	return encoders, nil
}

func buildMatrix(enriched []feature.Enriched, names []string, encoders map[string]*LabelEncoder) ([][]float64, error) {
	x := make([][]float64, len(enriched))
	for i, row := range enriched {
		vec := make([]float64, len(names))
		for j, name := range names {
			v, err := featureValue(name, row, encoders)
			if err != nil {
				return nil, err
			}
			vec[j] = v
		}
		x[i] = vec
	}
	return x, nil
}

// stratifiedSplit partitions indices into train and test sets, preserving
// the class balance of y in both.
func stratifiedSplit(y []int, testFraction float64, rng *rand.Rand) (train, test []int) {
	byClass := map[int][]int{}
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	for _, label := range []int{0, 1} {
		idx := byClass[label]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		cut := int(float64(len(idx)) * testFraction)
		test = append(test, idx[:cut]...)
		train = append(train, idx[cut:]...)
	}

	sort.Ints(train)
	sort.Ints(test)
	return train, test
}

func subset(x [][]float64, y []int, idx []int) ([][]float64, []int) {
	outX := make([][]float64, len(idx))
	outY := make([]int, len(idx))
	for i, j := range idx {
		outX[i] = x[j]
		outY[i] = y[j]
	}
	return outX, outY
}
