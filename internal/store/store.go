// Package store owns all file I/O and locking for the persisted document.
// Every other component works on an in-memory Document and describes its
// mutation through Update; nothing else touches the file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/genricoloni/muro/internal/config"
	"github.com/genricoloni/muro/internal/domain"
	"go.uber.org/zap"
)

var (
	// ErrCorrupt means the document exists but cannot be parsed. Fatal for
	// the invoking operation, never for the process.
	ErrCorrupt = errors.New("state document is corrupt")

	// ErrBusy means another process held the file lock for the whole
	// bounded wait.
	ErrBusy = errors.New("state document is locked by another process")
)

const (
	lockWait          = 5 * time.Second
	lockRetryInterval = 50 * time.Millisecond
)

// Store persists the single state document with an exclusive advisory
// lock held for the full load-mutate-save cycle of one logical operation.
type Store struct {
	logger *zap.Logger
	dir    string
	path   string

	// mu serializes goroutines inside one process; flock serializes
	// processes. Both are needed: the daemon's scheduler and a menu-style
	// invocation may share the process.
	mu sync.Mutex
}

// New creates a store rooted at the given data directory
func New(logger *zap.Logger, dataDir string) *Store {
	return &Store{
		logger: logger,
		dir:    dataDir,
		path:   config.DocumentPath(dataDir),
	}
}

// Dir returns the data directory the store is rooted at
func (s *Store) Dir() string {
	return s.dir
}

// Load reads the current document under a shared lock. A missing file
// yields the default first-run document.
func (s *Store) Load() (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc *domain.Document
	err := s.withLock(lockShared, func() error {
		var err error
		doc, err = s.read()
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Update runs fn on a freshly-read document under the exclusive lock and
// atomically persists the result. The re-read inside the lock means a
// caller that computed its mutation from an earlier snapshot applies it
// against whatever a concurrent writer left behind, instead of clobbering
// it. Returning an error from fn aborts without writing.
func (s *Store) Update(fn func(doc *domain.Document) error) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc *domain.Document
	err := s.withLock(lockExclusive, func() error {
		var err error
		doc, err = s.read()
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		return s.write(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// lockPath is a sidecar file so the lock survives the rename of the
// document itself.
func (s *Store) lockPath() string {
	return s.path + ".lock"
}

// withLock acquires the advisory file lock, runs fn, and releases it.
// Acquisition is non-blocking with retries up to lockWait, then ErrBusy.
func (s *Store) withLock(mode lockMode, fn func() error) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	deadline := time.Now().Add(lockWait)
	for {
		err = tryLock(f, mode)
		if err == nil {
			break
		}
		if !isWouldBlock(err) {
			return fmt.Errorf("acquire file lock: %w", err)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s", ErrBusy, s.lockPath())
		}
		time.Sleep(lockRetryInterval)
	}
	defer unlock(f) //nolint:errcheck

	return fn()
}

// read loads and parses the document. Unknown keys are ignored, missing
// keys keep their defaults, so older documents stay loadable.
func (s *Store) read() (*domain.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("No state document found, using defaults",
				zap.String("path", s.path))
			return domain.DefaultDocument(), nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	if len(data) == 0 {
		return domain.DefaultDocument(), nil
	}

	doc := domain.DefaultDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrCorrupt, s.path, err)
	}
	return doc, nil
}

// write persists the document atomically: temp file in the same
// directory, fsync, then rename. A crash never leaves a half-written
// document behind.
func (s *Store) write(doc *domain.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state document: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".muro-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

type lockMode int

const (
	lockShared lockMode = iota
	lockExclusive
)
