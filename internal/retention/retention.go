// Package retention prunes cached wallpaper files older than the
// configured age. It deletes files only: history entries stay, and a
// later navigation onto a pruned entry re-fetches transparently.
package retention

import (
	"os"
	"path/filepath"
	"time"

	"github.com/genricoloni/muro/internal/domain"
	"github.com/genricoloni/muro/internal/history"
	"go.uber.org/zap"
)

// Prune removes cached files whose owning entries all fell out of the
// retention window. The file backing the current entry is never removed,
// whatever its age. RetentionDays == 0 disables pruning. Idempotent: a
// second run with the same now removes nothing.
func Prune(logger *zap.Logger, doc *domain.Document, cacheDir string, now time.Time) []string {
	days := doc.Config.RetentionDays
	if days <= 0 || len(doc.History) == 0 {
		return nil
	}

	cutoff := now.AddDate(0, 0, -days)

	// A filename stays if any unexpired entry references it, or if it
	// backs the active wallpaper. Repeated fetches of the same photo id
	// share a filename, so expiry is judged per file, not per entry.
	keep := make(map[string]bool)
	if cur, ok := history.Current(doc); ok {
		keep[cur.Filename] = true
	}
	for _, w := range doc.History {
		if !w.AppliedAt.Before(cutoff) {
			keep[w.Filename] = true
		}
	}

	var removed []string
	seen := make(map[string]bool)
	for _, w := range doc.History {
		if keep[w.Filename] || seen[w.Filename] {
			continue
		}
		seen[w.Filename] = true

		path := filepath.Join(cacheDir, w.Filename)
		err := os.Remove(path)
		switch {
		case err == nil:
			logger.Info("Pruned expired wallpaper file",
				zap.String("filename", w.Filename),
				zap.Time("applied_at", w.AppliedAt))
			removed = append(removed, w.Filename)
		case os.IsNotExist(err):
			// Already gone, nothing to do
		default:
			logger.Warn("Failed to prune wallpaper file",
				zap.String("filename", w.Filename),
				zap.Error(err))
		}
	}

	return removed
}
