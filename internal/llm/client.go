// Package llm provides the optional narrative provider used to enrich
// explanations with free-text summaries. The pipeline works fully without
// it; every caller must tolerate a nil or failing client.
package llm

import (
	"context"
)

// Client defines the interface for narrative providers.
type Client interface {
	GenerateNarrative(ctx context.Context, prompt string) (string, error)
}

// Config contains provider settings for creating a client.
type Config struct {
	Provider          string
	APIKey            string
	Model             string
	BaseURL           string
	Temperature       float64
	MaxTokens         int
	RequestsPerMinute int
}
