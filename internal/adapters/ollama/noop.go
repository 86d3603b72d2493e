package ollama

import (
	"context"

	"github.com/emiliopalmerini/mhabit/internal/ports"
)

// NoOpClient is used when the model is disabled. Every call fails with
// ports.ErrGeneratorUnavailable so callers fall back to static text.
type NoOpClient struct{}

// NewNoOpClient creates a new no-op client for graceful degradation.
func NewNoOpClient() *NoOpClient {
	return &NoOpClient{}
}

func (c *NoOpClient) Generate(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
	return "", ports.ErrGeneratorUnavailable
}

func (c *NoOpClient) IsAvailable(ctx context.Context) bool {
	return false
}
