package domain

import "time"

// Wallpaper is one entry in the history log. Entries are append-only:
// navigation never removes them, and retention only deletes their backing
// files in the cache directory.
type Wallpaper struct {
	// ID is the provider-assigned photo identifier
	ID string `json:"id"`
	// Filename is relative to the wallpaper cache directory
	Filename string `json:"filename"`
	// AppliedAt is when this entry was applied as the desktop background
	AppliedAt time.Time `json:"applied_at"`
	// Title, Author and URL are display metadata only
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Config is the user-editable part of the persisted document
type Config struct {
	// AccessKey is the Unsplash API Client-ID
	AccessKey string `json:"unsplash_access_key"`
	// Collections are Unsplash collection IDs to pick photos from
	Collections []string `json:"collections"`
	// IntervalMinutes between automatic changes; 0 disables auto-cycling
	IntervalMinutes int `json:"interval_minutes"`
	// AspectRatioTolerance is the accepted deviation between a photo's
	// aspect ratio and the screen's, in [0, 1]
	AspectRatioTolerance float64 `json:"aspect_ratio_tolerance"`
	// RetentionDays before a cached file is pruned; 0 keeps files forever
	RetentionDays int `json:"retention_days"`
}

// State holds the schedule and the navigation pointer
type State struct {
	// IsRunning is true while a daemon's scheduler loop is alive
	IsRunning bool `json:"is_running"`
	// NextRunAt is absent when auto-cycling is disabled
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	// CurrentWallpaperID mirrors the ID at CurrentHistoryIndex
	CurrentWallpaperID string `json:"current_wallpaper_id,omitempty"`
	// CurrentHistoryIndex points into History.
	// Invariant: 0 <= index < len(history) whenever history is non-empty.
	CurrentHistoryIndex int `json:"current_history_index"`
}

// Document is the single on-disk aggregate owned by the store.
// It is loaded fully into memory, mutated, and written back atomically.
type Document struct {
	Config  Config      `json:"config"`
	State   State       `json:"state"`
	History []Wallpaper `json:"history"`
}

// Photo is a candidate image returned by the provider
type Photo struct {
	ID          string
	DownloadURL string
	Title       string
	Author      string
	PageURL     string
	Width       int
	Height      int
}

// ScreenResolution holds the primary display dimensions
type ScreenResolution struct {
	Width  int
	Height int
}

// DefaultDocument returns the document created on first run
func DefaultDocument() *Document {
	return &Document{
		Config: Config{
			Collections:          []string{"1053828", "3330448", "327760", "894"},
			IntervalMinutes:      120,
			AspectRatioTolerance: 0.1,
			RetentionDays:        7,
		},
	}
}

// AspectRatio returns width/height, or 0 for degenerate dimensions
func (p Photo) AspectRatio() float64 {
	if p.Height <= 0 {
		return 0
	}
	return float64(p.Width) / float64(p.Height)
}

// AspectRatio returns width/height, or 0 for degenerate dimensions
func (r ScreenResolution) AspectRatio() float64 {
	if r.Height <= 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}
