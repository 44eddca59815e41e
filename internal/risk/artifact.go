package risk

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Veraticus/stocksense/internal/classifier"
)

// artifactVersion identifies the serialized artifact layout.
const artifactVersion = 1

// artifactFile is the on-disk form of a ModelArtifact: the fitted classifier
// plus everything needed to reproduce training-time feature preparation,
// bundled as one versioned unit. Replace-on-retrain; never partially mutated.
type artifactFile struct {
	TrainedAt    time.Time                `json:"trained_at"`
	Encoders     map[string]*LabelEncoder `json:"encoders"`
	Scaler       *StandardScaler          `json:"scaler"`
	Algorithm    classifier.Algorithm     `json:"algorithm"`
	Model        json.RawMessage          `json:"model"`
	FeatureNames []string                 `json:"feature_names"`
	Version      int                      `json:"version"`
}

// artifactLocks serializes writers per artifact path. Training is an
// exclusive operation against one artifact; concurrent saves to the same
// path must not interleave.
var artifactLocks sync.Map

func lockArtifact(path string) func() {
	actual, _ := artifactLocks.LoadOrStore(filepath.Clean(path), &sync.Mutex{})
	mu := actual.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Save serializes the whole artifact atomically: written to a temp file in
// the target directory, then renamed over the destination. Write failures
// are fatal and surfaced; a model save is never silently dropped.
func (m *Model) Save(path string) error {
	if !m.trained {
		return ErrNotTrained
	}

	unlock := lockArtifact(path)
	defer unlock()

	clfData, err := classifier.Marshal(m.clf)
	if err != nil {
		return fmt.Errorf("failed to serialize classifier: %w", err)
	}

	artifact := artifactFile{
		Version:      artifactVersion,
		Algorithm:    m.algorithm,
		TrainedAt:    m.trainedAt,
		FeatureNames: m.featureNames,
		Encoders:     m.encoders,
		Scaler:       m.scaler,
		Model:        clfData,
	}

	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to serialize artifact: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close artifact: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace artifact: %w", err)
	}

	slog.Info("Model artifact saved",
		"path", path,
		"algorithm", m.algorithm,
		"features", len(m.featureNames))

	return nil
}

// Load reads an artifact into a trained model. A missing or unreadable
// artifact is an ArtifactLoadError: fatal, surfaced, and never recoverable
// through the heuristic path.
func Load(path string) (*Model, error) {
	unlock := lockArtifact(path)
	defer unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ArtifactLoadError{Path: path, Err: err}
	}

	var artifact artifactFile
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, &ArtifactLoadError{Path: path, Err: fmt.Errorf("corrupt artifact: %w", err)}
	}

	if artifact.Version != artifactVersion {
		return nil, &ArtifactLoadError{Path: path, Err: fmt.Errorf("unsupported artifact version %d", artifact.Version)}
	}
	if len(artifact.FeatureNames) == 0 {
		return nil, &ArtifactLoadError{Path: path, Err: errors.New("artifact has no feature ordering")}
	}

	clf, err := classifier.Unmarshal(artifact.Algorithm, artifact.Model)
	if err != nil {
		return nil, &ArtifactLoadError{Path: path, Err: err}
	}

	m := &Model{
		clf:          clf,
		algorithm:    artifact.Algorithm,
		encoders:     artifact.Encoders,
		scaler:       artifact.Scaler,
		featureNames: artifact.FeatureNames,
		trainedAt:    artifact.TrainedAt,
		trained:      true,
	}

	slog.Info("Model artifact loaded",
		"path", path,
		"algorithm", m.algorithm,
		"trained_at", m.trainedAt)

	return m, nil
}
