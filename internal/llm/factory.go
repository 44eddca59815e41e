package llm

import (
	"fmt"
	"strings"
)

// NewClient creates a narrative client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIClient(cfg)
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported narrative provider: %s", cfg.Provider)
	}
}
