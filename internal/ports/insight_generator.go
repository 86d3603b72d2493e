package ports

import (
	"context"
	"errors"
	"fmt"
)

// ErrGeneratorUnavailable is returned by generators that are switched off.
var ErrGeneratorUnavailable = errors.New("insight generator unavailable")

// GenerateOptions tunes a single text generation request.
type GenerateOptions struct {
	// Temperature controls randomness; insights use a low value.
	Temperature float64
	// MaxTokens caps the length of the response.
	MaxTokens int
}

// InsightGenerator produces free-text commentary from a prompt, typically by
// calling a local language model. Implementations must honour ctx deadlines.
type InsightGenerator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// StatusError reports a non-success response from the generator backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("insight generator returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("insight generator returned status %d: %s", e.StatusCode, e.Body)
}
