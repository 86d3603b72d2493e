package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/emiliopalmerini/mhabit/internal/logger"
	"github.com/emiliopalmerini/mhabit/internal/ports"
)

const (
	filePrefix = "habits-"
	fileSuffix = ".json"
	timeLayout = "20060102-150405.000"
)

// Snapshotter copies the habit document into timestamped files and keeps
// only the newest ones.
type Snapshotter struct {
	store ports.HabitStore
	dir   string
	keep  int
	now   func() time.Time
}

// NewSnapshotter writes snapshots of store into dir, retaining keep files.
// keep <= 0 disables pruning.
func NewSnapshotter(store ports.HabitStore, dir string, keep int) *Snapshotter {
	return &Snapshotter{store: store, dir: dir, keep: keep, now: time.Now}
}

// Snapshot writes one snapshot and prunes old ones. It returns the new file path.
func (s *Snapshotter) Snapshot(ctx context.Context) (string, error) {
	c, err := s.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load habits: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize habits: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := filePrefix + s.now().UTC().Format(timeLayout) + fileSuffix
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize snapshot: %w", err)
	}

	logger.Info("habit snapshot written", "path", path, "habits", len(c.Habits))

	if err := s.prune(); err != nil {
		logger.Warn("failed to prune old snapshots", "dir", s.dir, "error", err)
	}
	return path, nil
}

// List returns existing snapshot paths, oldest first.
func (s *Snapshotter) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasPrefix(n, filePrefix) || !strings.HasSuffix(n, fileSuffix) {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(s.dir, n)
	}
	return paths, nil
}

func (s *Snapshotter) prune() error {
	if s.keep <= 0 {
		return nil
	}
	paths, err := s.List()
	if err != nil {
		return err
	}
	for len(paths) > s.keep {
		if err := os.Remove(paths[0]); err != nil {
			return err
		}
		paths = paths[1:]
	}
	return nil
}
