package domain

import "context"

// Provider defines the interface for the remote image search API.
// Implementations must bound their wait and never hang a scheduler tick.
//
//go:generate mockgen -destination=mocks/domain_mocks.go -package=mocks github.com/genricoloni/muro/internal/domain Provider,Executor,Notifier
type Provider interface {
	// Random returns one candidate landscape photo from the configured
	// collections. Failures and empty results are both errors: the
	// operation is all-or-nothing for the caller.
	Random(ctx context.Context, cfg Config) (Photo, error)

	// Download retrieves the raw image bytes for a photo URL
	Download(ctx context.Context, url string) ([]byte, error)
}

// Executor defines the interface for the OS wallpaper primitive
type Executor interface {
	// SetWallpaper sets the desktop wallpaper to the specified image path
	SetWallpaper(ctx context.Context, imagePath string) error
}

// Notifier posts a desktop notification. Implementations are best-effort:
// callers log failures and move on.
type Notifier interface {
	Notify(ctx context.Context, summary, body string) error
}

// Autostart manages login-item registration. It is consulted only for
// display and toggling, never by the lifecycle state machine.
type Autostart interface {
	Enable() error
	Disable() error
	IsEnabled() bool
}
