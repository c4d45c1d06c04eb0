// Package manager orchestrates the wallpaper lifecycle: it navigates the
// history log, coordinates fetches with the provider, applies the result
// through the OS executor, and persists every mutation as one atomic
// load-mutate-save unit through the store.
package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/genricoloni/muro/internal/config"
	"github.com/genricoloni/muro/internal/domain"
	"github.com/genricoloni/muro/internal/history"
	"github.com/genricoloni/muro/internal/render"
	"github.com/genricoloni/muro/internal/retention"
	"github.com/genricoloni/muro/internal/store"
	"go.uber.org/zap"
)

// ErrApplyFailed means the OS refused to set the background. The image is
// cached and recorded in history regardless: download and bookkeeping
// succeed independently of the desktop accepting the change.
var ErrApplyFailed = errors.New("failed to apply wallpaper")

// maxAspectAttempts bounds how many candidates are rejected for aspect
// ratio before the last one is accepted anyway
const maxAspectAttempts = 3

// Manager ties the store, provider and executor together. Every public
// operation is one logical command: the same methods back the CLI, the
// tray-style invocations and the scheduler.
type Manager struct {
	logger   *zap.Logger
	store    *store.Store
	provider domain.Provider
	executor domain.Executor
	notifier domain.Notifier
	res      *domain.ScreenResolution
	cacheDir string
	now      func() time.Time
}

// New creates a manager rooted at the store's data directory
func New(
	logger *zap.Logger,
	st *store.Store,
	prov domain.Provider,
	exec domain.Executor,
	notif domain.Notifier,
	res *domain.ScreenResolution,
) *Manager {
	return &Manager{
		logger:   logger,
		store:    st,
		provider: prov,
		executor: exec,
		notifier: notif,
		res:      res,
		cacheDir: config.CacheDir(st.Dir()),
		now:      time.Now,
	}
}

// Next moves forward in history, fetching a new wallpaper only when the
// log is exhausted.
func (m *Manager) Next(ctx context.Context) (domain.Wallpaper, error) {
	return m.navigate(ctx, history.Next())
}

// Prev moves back in history. At the oldest entry it reports
// history.ErrAtOldest and changes nothing.
func (m *Manager) Prev(ctx context.Context) (domain.Wallpaper, error) {
	return m.navigate(ctx, history.Prev())
}

// ForceNew fetches a new wallpaper unconditionally. The new entry is
// appended at the tail; entries after the old pointer are kept.
func (m *Manager) ForceNew(ctx context.Context) (domain.Wallpaper, error) {
	return m.navigate(ctx, history.ForceNew())
}

// SetIndex jumps to an absolute history index
func (m *Manager) SetIndex(ctx context.Context, index int) (domain.Wallpaper, error) {
	return m.navigate(ctx, history.Jump(index))
}

// Current returns the entry under the navigation pointer, if any
func (m *Manager) Current() (domain.Wallpaper, bool, error) {
	doc, err := m.store.Load()
	if err != nil {
		return domain.Wallpaper{}, false, err
	}
	w, ok := history.Current(doc)
	return w, ok, nil
}

// fetched carries a downloaded-and-rendered photo between the unlocked
// fetch phase and the locked persist phase
type fetched struct {
	photo    domain.Photo
	filename string
}

// navigate runs one full command cycle. The fetch and download happen
// against a snapshot with no lock held; the store lock is then taken
// briefly to re-read the document and apply the computed delta, so a
// concurrent writer is never clobbered.
func (m *Manager) navigate(ctx context.Context, op history.Op) (domain.Wallpaper, error) {
	snap, err := m.store.Load()
	if err != nil {
		return domain.Wallpaper{}, err
	}

	outcome, err := history.Apply(snap, op)
	if err != nil {
		return domain.Wallpaper{}, err
	}

	var (
		f       *fetched
		heal    bool
		applied domain.Wallpaper
	)
	switch outcome {
	case history.OutcomeMoved:
		applied, _ = history.Current(snap)
		if m.fileMissing(applied.Filename) {
			// The backing file was pruned. Fall back to the same
			// fetch path as a brand-new image and patch the entry,
			// instead of erroring on the dangling reference.
			m.logger.Warn("Cached wallpaper file missing, re-fetching",
				zap.String("op", op.String()),
				zap.String("filename", applied.Filename))
			heal = true
			f, err = m.fetch(ctx, snap.Config)
			if err != nil {
				return domain.Wallpaper{}, err
			}
		}
	case history.OutcomeFetch:
		f, err = m.fetch(ctx, snap.Config)
		if err != nil {
			return domain.Wallpaper{}, err
		}
	}

	filename := applied.Filename
	if f != nil {
		filename = f.filename
	}
	applyErr := m.executor.SetWallpaper(ctx, filepath.Join(m.cacheDir, filename))

	now := m.now()
	_, err = m.store.Update(func(doc *domain.Document) error {
		fresh, err := history.Apply(doc, op)
		if err != nil {
			return err
		}

		switch {
		case f == nil:
			// Pure pointer move
			applied, _ = history.Current(doc)

		case heal && fresh == history.OutcomeMoved:
			// Replace the dangling entry's backing fields in place,
			// keeping its position in the log
			idx := doc.State.CurrentHistoryIndex
			doc.History[idx] = m.entryFrom(f, now)
			doc.State.CurrentWallpaperID = f.photo.ID
			applied = doc.History[idx]

		default:
			// Freshly fetched image is on the desktop now; append it
			// even if a concurrent writer moved the log underneath us
			applied = m.entryFrom(f, now)
			history.Append(doc, applied)
			stampSchedule(doc, now)
		}

		retention.Prune(m.logger, doc, m.cacheDir, now)
		return nil
	})
	if err != nil {
		return domain.Wallpaper{}, err
	}

	m.notifyChange(ctx, applied)

	if applyErr != nil {
		return applied, fmt.Errorf("%w: %v", ErrApplyFailed, applyErr)
	}

	m.logger.Info("Wallpaper updated",
		zap.String("op", op.String()),
		zap.String("id", applied.ID),
		zap.String("filename", applied.Filename))
	return applied, nil
}

// fetch obtains one new image: search, download, render into the cache.
// No history mutation happens here. A failed persist can strand the
// cache file; its name derives from the photo id, so a later fetch of
// the same photo reuses it.
func (m *Manager) fetch(ctx context.Context, cfg domain.Config) (*fetched, error) {
	var photo domain.Photo
	matched := false
	for attempt := 0; attempt < maxAspectAttempts; attempt++ {
		p, err := m.provider.Random(ctx, cfg)
		if err != nil {
			return nil, err
		}
		photo = p
		if render.AspectWithinTolerance(p, m.res, cfg.AspectRatioTolerance) {
			matched = true
			break
		}
		m.logger.Debug("Photo aspect ratio outside tolerance, retrying",
			zap.String("id", p.ID),
			zap.Int("width", p.Width),
			zap.Int("height", p.Height))
	}
	if !matched {
		m.logger.Warn("No photo within aspect tolerance, accepting last candidate",
			zap.String("id", photo.ID))
	}

	data, err := m.provider.Download(ctx, photo.DownloadURL)
	if err != nil {
		return nil, err
	}

	// Filename derives from the provider id, so re-fetching the same
	// photo is idempotent on disk
	filename := fmt.Sprintf("wallpaper_%s.jpg", photo.ID)
	if err := render.SaveFitted(m.logger, data, filepath.Join(m.cacheDir, filename), m.res); err != nil {
		return nil, err
	}

	return &fetched{photo: photo, filename: filename}, nil
}

func (m *Manager) entryFrom(f *fetched, now time.Time) domain.Wallpaper {
	return domain.Wallpaper{
		ID:        f.photo.ID,
		Filename:  f.filename,
		AppliedAt: now,
		Title:     f.photo.Title,
		Author:    f.photo.Author,
		URL:       f.photo.PageURL,
	}
}

func (m *Manager) fileMissing(filename string) bool {
	if filename == "" {
		return true
	}
	_, err := os.Stat(filepath.Join(m.cacheDir, filename))
	return err != nil
}

func (m *Manager) notifyChange(ctx context.Context, w domain.Wallpaper) {
	body := w.Title
	if w.Author != "" {
		if body != "" {
			body += " "
		}
		body += "by " + w.Author
	}
	if err := m.notifier.Notify(ctx, "Wallpaper changed", body); err != nil {
		m.logger.Debug("Notification failed", zap.Error(err))
	}
}

// stampSchedule records a successful fetch and plans the next automatic
// run. Interval 0 means auto-cycling is off: no next run is planned.
func stampSchedule(doc *domain.Document, now time.Time) {
	doc.State.LastRunAt = &now
	if doc.Config.IntervalMinutes > 0 {
		next := now.Add(time.Duration(doc.Config.IntervalMinutes) * time.Minute)
		doc.State.NextRunAt = &next
	} else {
		doc.State.NextRunAt = nil
	}
}
