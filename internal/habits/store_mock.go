package habits

import (
	"context"
	"sync"

	"github.com/emiliopalmerini/mhabit/internal/domain"
)

// MockStore is a mock implementation of ports.HabitStore for testing.
type MockStore struct {
	LoadFunc func(ctx context.Context) (*domain.HabitCollection, error)
	SaveFunc func(ctx context.Context, c *domain.HabitCollection) error

	mu        sync.Mutex
	saveCalls int
}

func (m *MockStore) Load(ctx context.Context) (*domain.HabitCollection, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return domain.NewHabitCollection(), nil
}

func (m *MockStore) Save(ctx context.Context, c *domain.HabitCollection) error {
	m.mu.Lock()
	m.saveCalls++
	m.mu.Unlock()

	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, c)
	}
	return nil
}

// SaveCalls returns how many times Save was invoked.
func (m *MockStore) SaveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCalls
}
