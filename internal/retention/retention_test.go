package retention

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/genricoloni/muro/internal/domain"
	"go.uber.org/zap"
)

var now = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func writeCacheFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func exists(t *testing.T, dir, name string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(dir, name))
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	return err == nil
}

func entry(id string, age time.Duration) domain.Wallpaper {
	return domain.Wallpaper{
		ID:        id,
		Filename:  "wallpaper_" + id + ".jpg",
		AppliedAt: now.Add(-age),
	}
}

func TestPruneRemovesExpiredFiles(t *testing.T) {
	dir := t.TempDir()
	doc := domain.DefaultDocument()
	doc.Config.RetentionDays = 7
	doc.History = []domain.Wallpaper{
		entry("old", 10*24*time.Hour),
		entry("fresh", 2*24*time.Hour),
	}
	doc.State.CurrentHistoryIndex = 1
	doc.State.CurrentWallpaperID = "fresh"
	writeCacheFile(t, dir, "wallpaper_old.jpg")
	writeCacheFile(t, dir, "wallpaper_fresh.jpg")

	removed := Prune(zap.NewNop(), doc, dir, now)

	if len(removed) != 1 || removed[0] != "wallpaper_old.jpg" {
		t.Fatalf("expected only wallpaper_old.jpg removed, got %v", removed)
	}
	if exists(t, dir, "wallpaper_old.jpg") {
		t.Error("expected expired file to be deleted")
	}
	if !exists(t, dir, "wallpaper_fresh.jpg") {
		t.Error("expected fresh file to survive")
	}
	if len(doc.History) != 2 {
		t.Errorf("history entries must survive pruning, got %d", len(doc.History))
	}
}

func TestPruneDisabled(t *testing.T) {
	dir := t.TempDir()
	doc := domain.DefaultDocument()
	doc.Config.RetentionDays = 0
	doc.History = []domain.Wallpaper{entry("ancient", 365*24*time.Hour)}
	writeCacheFile(t, dir, "wallpaper_ancient.jpg")

	if removed := Prune(zap.NewNop(), doc, dir, now); removed != nil {
		t.Fatalf("expected no pruning with retention 0, got %v", removed)
	}
	if !exists(t, dir, "wallpaper_ancient.jpg") {
		t.Error("expected file to survive with retention disabled")
	}
}

func TestPruneNeverRemovesCurrentEntry(t *testing.T) {
	dir := t.TempDir()
	doc := domain.DefaultDocument()
	doc.Config.RetentionDays = 7
	doc.History = []domain.Wallpaper{
		entry("stale", 30*24*time.Hour),
		entry("fresh", time.Hour),
	}
	// Navigated back onto the expired entry
	doc.State.CurrentHistoryIndex = 0
	doc.State.CurrentWallpaperID = "stale"
	writeCacheFile(t, dir, "wallpaper_stale.jpg")
	writeCacheFile(t, dir, "wallpaper_fresh.jpg")

	if removed := Prune(zap.NewNop(), doc, dir, now); len(removed) != 0 {
		t.Fatalf("expected nothing removed, got %v", removed)
	}
	if !exists(t, dir, "wallpaper_stale.jpg") {
		t.Error("active wallpaper file must never be pruned")
	}
}

func TestPruneSharedFilenameKeptByUnexpiredEntry(t *testing.T) {
	dir := t.TempDir()
	doc := domain.DefaultDocument()
	doc.Config.RetentionDays = 7
	// Same photo fetched twice: one expired entry, one fresh, same file
	doc.History = []domain.Wallpaper{
		entry("twin", 20*24*time.Hour),
		entry("twin", time.Hour),
		entry("fresh", time.Hour),
	}
	doc.State.CurrentHistoryIndex = 2
	doc.State.CurrentWallpaperID = "fresh"
	writeCacheFile(t, dir, "wallpaper_twin.jpg")
	writeCacheFile(t, dir, "wallpaper_fresh.jpg")

	if removed := Prune(zap.NewNop(), doc, dir, now); len(removed) != 0 {
		t.Fatalf("expected nothing removed, got %v", removed)
	}
	if !exists(t, dir, "wallpaper_twin.jpg") {
		t.Error("file referenced by an unexpired entry must survive")
	}
}

func TestPruneIdempotent(t *testing.T) {
	dir := t.TempDir()
	doc := domain.DefaultDocument()
	doc.Config.RetentionDays = 7
	doc.History = []domain.Wallpaper{
		entry("old", 10*24*time.Hour),
		entry("fresh", time.Hour),
	}
	doc.State.CurrentHistoryIndex = 1
	doc.State.CurrentWallpaperID = "fresh"
	writeCacheFile(t, dir, "wallpaper_old.jpg")
	writeCacheFile(t, dir, "wallpaper_fresh.jpg")

	first := Prune(zap.NewNop(), doc, dir, now)
	if len(first) != 1 {
		t.Fatalf("expected one removal on first run, got %v", first)
	}
	// Second run with the same now: file already gone, no error, no report
	if second := Prune(zap.NewNop(), doc, dir, now); len(second) != 0 {
		t.Fatalf("expected nothing removed on second run, got %v", second)
	}
}

func TestPruneEmptyHistory(t *testing.T) {
	doc := domain.DefaultDocument()
	doc.Config.RetentionDays = 7

	if removed := Prune(zap.NewNop(), doc, t.TempDir(), now); removed != nil {
		t.Fatalf("expected no-op on empty history, got %v", removed)
	}
}
