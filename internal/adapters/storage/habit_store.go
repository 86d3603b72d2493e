package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emiliopalmerini/mhabit/internal/domain"
	"github.com/emiliopalmerini/mhabit/internal/logger"
)

// HabitStore keeps the habit collection in a single JSON file.
type HabitStore struct {
	path string
}

// NewHabitStore prepares the data directory and bootstraps an empty
// {"habits": []} document when the file is missing or empty.
func NewHabitStore(path string) (*HabitStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &HabitStore{path: path}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0):
		if err := s.Save(context.Background(), domain.NewHabitCollection()); err != nil {
			return nil, fmt.Errorf("failed to initialize habits file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to stat habits file: %w", err)
	}

	return s, nil
}

// Path returns the location of the JSON document.
func (s *HabitStore) Path() string {
	return s.path
}

// Load reads the whole document. A missing, empty or malformed file yields an
// empty collection; only genuine read failures are returned as errors.
func (s *HabitStore) Load(ctx context.Context) (*domain.HabitCollection, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.NewHabitCollection(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read habits file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return domain.NewHabitCollection(), nil
	}

	var c domain.HabitCollection
	if err := json.Unmarshal(data, &c); err != nil {
		logger.Warn("habits file is malformed, treating as empty", "path", s.path, "error", err)
		return domain.NewHabitCollection(), nil
	}
	c.Normalize()
	return &c, nil
}

// Save rewrites the whole document through a temp file and rename, so readers
// never observe a partially written file.
func (s *HabitStore) Save(ctx context.Context, c *domain.HabitCollection) error {
	if c == nil {
		c = domain.NewHabitCollection()
	}
	c.Normalize()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize habits: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".habits-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write habits: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync habits: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace habits file: %w", err)
	}
	return nil
}
