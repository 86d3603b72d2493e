package insights

import (
	"context"
	"sync"

	"github.com/emiliopalmerini/mhabit/internal/ports"
)

// mockGenerator counts calls and delegates to GenerateFunc when set.
type mockGenerator struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	opts    []ports.GenerateOptions

	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "insight", nil
}

func (m *mockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
