package llm

import (
	"context"
	"fmt"

	"github.com/Veraticus/stocksense/internal/common"
	"github.com/Veraticus/stocksense/internal/service"
)

// Narrator wraps a raw client with rate limiting and retries. It satisfies
// service.NarrativeGenerator; callers hold it through that interface and
// fall back to templated text when it errors.
type Narrator struct {
	client    Client
	limiter   *rateLimiter
	retryOpts service.RetryOptions
}

// NewNarrator builds a Narrator around a client. The client must be non-nil;
// components that can live without narratives should hold a nil
// service.NarrativeGenerator instead.
func NewNarrator(client Client, cfg Config) (*Narrator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: narrative client is required", common.ErrNarrativeUnavailable)
	}

	return &Narrator{
		client:    client,
		limiter:   newRateLimiter(cfg.RequestsPerMinute),
		retryOpts: service.RetryOptions{MaxAttempts: 3},
	}, nil
}

// GenerateNarrative produces a narrative for the prompt, waiting for rate
// limit capacity and retrying transient failures.
func (n *Narrator) GenerateNarrative(ctx context.Context, prompt string) (string, error) {
	if err := n.limiter.wait(ctx); err != nil {
		return "", err
	}

	var text string
	err := common.WithRetry(ctx, func() error {
		var genErr error
		text, genErr = n.client.GenerateNarrative(ctx, prompt)
		return genErr
	}, n.retryOpts)
	if err != nil {
		return "", fmt.Errorf("narrative generation failed: %w", err)
	}
	return text, nil
}

// Close releases the rate limiter's background resources.
func (n *Narrator) Close() {
	n.limiter.Close()
}
