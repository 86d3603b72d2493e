package turso

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/emiliopalmerini/mhabit/internal/domain"
	"github.com/emiliopalmerini/mhabit/internal/logger"
)

const maxRetries = 2

// HabitStore keeps the habit document as a single row in a libsql database.
type HabitStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewHabitStore returns a store backed by db. Migrations must already be applied.
func NewHabitStore(db *sql.DB) *HabitStore {
	return &HabitStore{db: db, now: time.Now}
}

// Load returns the stored document. A missing row or a malformed body yields
// an empty collection.
func (s *HabitStore) Load(ctx context.Context) (*domain.HabitCollection, error) {
	body, err := WithRetry(ctx, maxRetries, func() (string, error) {
		var body string
		err := s.db.QueryRowContext(ctx, `SELECT body FROM habit_documents WHERE id = 1`).Scan(&body)
		return body, err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewHabitCollection(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	var c domain.HabitCollection
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		logger.Warn("stored habit document is malformed, treating as empty", "error", err)
		return domain.NewHabitCollection(), nil
	}
	c.Normalize()
	return &c, nil
}

// Save replaces the stored document.
func (s *HabitStore) Save(ctx context.Context, c *domain.HabitCollection) error {
	if c == nil {
		c = domain.NewHabitCollection()
	}
	c.Normalize()

	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize habits: %w", err)
	}

	_, err = WithRetry(ctx, maxRetries, func() (sql.Result, error) {
		return s.db.ExecContext(ctx, `
			INSERT INTO habit_documents (id, body, updated_at) VALUES (1, ?, ?)
			ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
		`, string(body), domain.FormatTimestamp(s.now()))
	})
	if err != nil {
		return fmt.Errorf("failed to save habits: %w", err)
	}
	return nil
}
