//go:build windows

// Package autostart manages login-item registration for the daemon.
package autostart

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sys/windows/registry"
)

const (
	runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`
	valueName  = "muro"
)

// RunKeyAutostart registers the daemon under the HKCU Run key
type RunKeyAutostart struct {
	logger *zap.Logger
}

// New creates the platform autostart manager (Windows implementation)
func New(logger *zap.Logger) *RunKeyAutostart {
	return &RunKeyAutostart{logger: logger}
}

// Enable registers the daemon in the current user's Run key
func (a *RunKeyAutostart) Enable() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}

	key, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open Run key: %w", err)
	}
	defer key.Close()

	if err := key.SetStringValue(valueName, fmt.Sprintf(`"%s" daemon`, exe)); err != nil {
		return fmt.Errorf("set Run value: %w", err)
	}

	a.logger.Info("Autostart enabled")
	return nil
}

// Disable removes the daemon from the Run key
func (a *RunKeyAutostart) Disable() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return nil
		}
		return fmt.Errorf("open Run key: %w", err)
	}
	defer key.Close()

	if err := key.DeleteValue(valueName); err != nil && err != registry.ErrNotExist {
		return fmt.Errorf("delete Run value: %w", err)
	}

	a.logger.Info("Autostart disabled")
	return nil
}

// IsEnabled reports whether the Run key value exists
func (a *RunKeyAutostart) IsEnabled() bool {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer key.Close()

	_, _, err = key.GetStringValue(valueName)
	return err == nil
}
