package ports

import (
	"context"

	"github.com/emiliopalmerini/mhabit/internal/domain"
)

// HabitStore persists the whole habit collection as one document.
// Load returns an empty collection when the document is missing or malformed;
// an error means the document exists but could not be read.
type HabitStore interface {
	Load(ctx context.Context) (*domain.HabitCollection, error)
	Save(ctx context.Context, c *domain.HabitCollection) error
}
