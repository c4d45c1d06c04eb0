package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/genricoloni/muro/internal/domain"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(zap.NewNop(), t.TempDir())
}

func TestLoadFirstRunDefaults(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Config.IntervalMinutes != 120 {
		t.Errorf("expected default interval 120, got %d", doc.Config.IntervalMinutes)
	}
	if doc.Config.RetentionDays != 7 {
		t.Errorf("expected default retention 7, got %d", doc.Config.RetentionDays)
	}
	if len(doc.Config.Collections) == 0 {
		t.Error("expected default collections to be populated")
	}
	if len(doc.History) != 0 {
		t.Errorf("expected empty history, got %d entries", len(doc.History))
	}

	// A plain Load must not create the document
	if _, err := os.Stat(s.path); !os.IsNotExist(err) {
		t.Errorf("expected no document on disk after Load, stat err: %v", err)
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	s := newTestStore(t)

	applied := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	_, err := s.Update(func(doc *domain.Document) error {
		doc.Config.AccessKey = "test-key"
		doc.History = append(doc.History, domain.Wallpaper{
			ID:        "abc123",
			Filename:  "wallpaper_abc123.jpg",
			AppliedAt: applied,
			Author:    "Someone",
		})
		doc.State.CurrentWallpaperID = "abc123"
		return nil
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if doc.Config.AccessKey != "test-key" {
		t.Errorf("expected access key to round-trip, got %q", doc.Config.AccessKey)
	}
	if len(doc.History) != 1 || doc.History[0].ID != "abc123" {
		t.Fatalf("expected one history entry abc123, got %+v", doc.History)
	}
	if !doc.History[0].AppliedAt.Equal(applied) {
		t.Errorf("applied_at mismatch: want %v, got %v", applied, doc.History[0].AppliedAt)
	}
	if doc.State.CurrentWallpaperID != "abc123" {
		t.Errorf("expected current id abc123, got %q", doc.State.CurrentWallpaperID)
	}
}

func TestUpdateErrorAbortsWrite(t *testing.T) {
	s := newTestStore(t)

	wantErr := errors.New("nope")
	if _, err := s.Update(func(doc *domain.Document) error {
		doc.Config.AccessKey = "should-not-persist"
		return wantErr
	}); !errors.Is(err, wantErr) {
		t.Fatalf("expected fn error to propagate, got %v", err)
	}

	if _, err := os.Stat(s.path); !os.IsNotExist(err) {
		t.Errorf("expected no document written after aborted update, stat err: %v", err)
	}
}

func TestReadUnknownAndMissingKeys(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		t.Fatal(err)
	}

	// Older and newer documents alike: unknown keys are ignored, missing
	// keys keep their defaults
	raw := `{
  "config": {"unsplash_access_key": "k", "future_option": true},
  "state": {"is_running": true},
  "history": []
}`
	if err := os.WriteFile(s.path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Config.AccessKey != "k" {
		t.Errorf("expected access key k, got %q", doc.Config.AccessKey)
	}
	if doc.Config.IntervalMinutes != 120 {
		t.Errorf("expected missing interval to default to 120, got %d", doc.Config.IntervalMinutes)
	}
	if !doc.State.IsRunning {
		t.Error("expected is_running to be read")
	}
}

func TestLoadCorruptDocument(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load(); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("expected empty file to load as defaults, got %v", err)
	}
	if doc.Config.IntervalMinutes != 120 {
		t.Errorf("expected defaults, got interval %d", doc.Config.IntervalMinutes)
	}
}

func TestUpdateBusyWhenLockHeld(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		t.Fatal(err)
	}

	// Hold the exclusive lock on a second descriptor, the way another
	// process would
	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := tryLock(f, lockExclusive); err != nil {
		t.Fatalf("could not take blocking lock: %v", err)
	}
	defer unlock(f) //nolint:errcheck

	start := time.Now()
	_, err = s.Update(func(doc *domain.Document) error { return nil })
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < lockWait {
		t.Errorf("expected the full bounded wait before ErrBusy, waited %v", elapsed)
	}
}

func TestWriteIsAtomic(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Update(func(doc *domain.Document) error {
		doc.Config.AccessKey = "first"
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Update(func(doc *domain.Document) error {
		doc.Config.AccessKey = "second"
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	// No stray temp files left behind
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		name := e.Name()
		if name != filepath.Base(s.path) && name != filepath.Base(s.lockPath()) {
			t.Errorf("unexpected file in data directory: %s", name)
		}
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Config.AccessKey != "second" {
		t.Errorf("expected latest write to win, got %q", doc.Config.AccessKey)
	}
}
