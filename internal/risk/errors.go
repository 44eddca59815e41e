package risk

import (
	"errors"
	"fmt"
)

// ErrNotTrained indicates model-path inference was attempted before any
// train or load.
var ErrNotTrained = errors.New("model must be trained or loaded before predicting")

// ArtifactLoadError is fatal: no model exists to fall back from. It is
// always surfaced to the caller, never converted to the heuristic path.
type ArtifactLoadError struct {
	Err  error
	Path string
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("failed to load model artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}

// InferenceError wraps a model-path failure during prediction. The
// prediction service catches exactly this class and routes to the heuristic;
// anything else is a programming error and propagates.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("model inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
