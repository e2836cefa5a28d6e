package flatstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrQuotaExceeded is returned when a write would push the store past its
// byte budget.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// DefaultBudgetBytes is the byte budget for the flat store when none is
// configured. The flat representation keeps image payloads inline, so the
// budget is deliberately tight.
const DefaultBudgetBytes int64 = 256 << 20

const (
	usersFile    = "users.json"
	postsFile    = "posts.json"
	commentsFile = "comments.json"
	followsFile  = "follows.json"
	imagesFile   = "images.json"
	statusFile   = "migration_status.json"
)

// Store is the flat key-value backend: one JSON document per collection
// under a base directory, image payloads inline. It predates the richer
// engine and doubles as the fallback backend when the engine is unavailable.
type Store struct {
	baseDir string
	budget  int64

	mu       sync.Mutex
	initOnce sync.Once
	initErr  error
}

func NewStore(baseDir string, budgetBytes int64) *Store {
	if budgetBytes <= 0 {
		budgetBytes = DefaultBudgetBytes
	}
	return &Store{baseDir: baseDir, budget: budgetBytes}
}

func (s *Store) Name() string {
	return "flatstore"
}

func (s *Store) ready(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = os.MkdirAll(s.baseDir, os.ModePerm)
		if s.initErr != nil {
			s.initErr = fmt.Errorf("error creating flat store dir: %v", s.initErr)
		}
	})
	if s.initErr != nil {
		return s.initErr
	}
	return ctx.Err()
}

func (s *Store) path(name string) string {
	return filepath.Join(s.baseDir, name)
}

func (s *Store) readDoc(name string, v interface{}) error {
	bytes, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error reading %s: %v", name, err)
	}
	if err := json.Unmarshal(bytes, v); err != nil {
		return fmt.Errorf("error parsing %s: %v", name, err)
	}
	return nil
}

// writeDoc enforces the byte budget, then writes via a temp file + rename so
// a crash never leaves a half-written collection.
func (s *Store) writeDoc(name string, v interface{}) error {
	bytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshalling %s: %v", name, err)
	}

	otherUsage := s.usageExcluding(name)
	if otherUsage+int64(len(bytes)) > s.budget {
		return ErrQuotaExceeded
	}

	tmp := s.path(name + ".tmp")
	if err := os.WriteFile(tmp, bytes, 0644); err != nil {
		return fmt.Errorf("error writing %s: %v", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		return fmt.Errorf("error replacing %s: %v", name, err)
	}
	return nil
}

func (s *Store) usageExcluding(name string) int64 {
	var total int64
	for _, f := range []string{usersFile, postsFile, commentsFile, followsFile, imagesFile, statusFile} {
		if f == name {
			continue
		}
		if info, err := os.Stat(s.path(f)); err == nil {
			total += info.Size()
		}
	}
	return total
}

// LegacyPresent reports whether any legacy collection document exists, which
// is the trigger for migration to the richer engine.
func (s *Store) LegacyPresent() bool {
	for _, f := range []string{usersFile, postsFile, commentsFile, followsFile} {
		if _, err := os.Stat(s.path(f)); err == nil {
			return true
		}
	}
	return false
}

// TotalBytes is the on-disk size of all collection documents.
func (s *Store) TotalBytes() int64 {
	return s.usageExcluding("")
}

// Destroy deletes the entire flat representation. Called by the migration
// manager after the grace delay.
func (s *Store) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range []string{usersFile, postsFile, commentsFile, followsFile, imagesFile, statusFile} {
		if err := os.Remove(s.path(f)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("error removing %s: %v", f, err)
		}
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing %s: %v", path, err)
	}
	return nil
}

func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.Destroy()
}
