//go:build linux

// Package autostart manages login-item registration for the daemon.
package autostart

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const desktopEntry = `[Desktop Entry]
Type=Application
Name=muro
Comment=Wallpaper changer daemon
Exec=%s daemon
Terminal=false
X-GNOME-Autostart-enabled=true
`

// XDGAutostart registers the daemon through an XDG autostart desktop entry
type XDGAutostart struct {
	logger *zap.Logger
}

// New creates the platform autostart manager (Linux implementation)
func New(logger *zap.Logger) *XDGAutostart {
	return &XDGAutostart{logger: logger}
}

func entryPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(base, "autostart", "muro.desktop"), nil
}

// Enable writes the autostart desktop entry pointing at this executable
func (a *XDGAutostart) Enable() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}

	path, err := entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create autostart directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(fmt.Sprintf(desktopEntry, exe)), 0o644); err != nil {
		return fmt.Errorf("write autostart entry: %w", err)
	}

	a.logger.Info("Autostart enabled", zap.String("entry", path))
	return nil
}

// Disable removes the autostart desktop entry
func (a *XDGAutostart) Disable() error {
	path, err := entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove autostart entry: %w", err)
	}

	a.logger.Info("Autostart disabled", zap.String("entry", path))
	return nil
}

// IsEnabled reports whether the autostart entry exists
func (a *XDGAutostart) IsEnabled() bool {
	path, err := entryPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
