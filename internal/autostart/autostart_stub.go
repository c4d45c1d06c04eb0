//go:build !linux && !windows

// Package autostart manages login-item registration for the daemon.
package autostart

import (
	"fmt"

	"go.uber.org/zap"
)

// StubAutostart is a placeholder for unsupported platforms
type StubAutostart struct {
	logger *zap.Logger
}

// New creates a stub autostart manager for unsupported platforms
func New(logger *zap.Logger) *StubAutostart {
	return &StubAutostart{logger: logger}
}

// Enable returns an error indicating the platform is not supported
func (a *StubAutostart) Enable() error {
	return fmt.Errorf("autostart not implemented for this platform")
}

// Disable returns an error indicating the platform is not supported
func (a *StubAutostart) Disable() error {
	return fmt.Errorf("autostart not implemented for this platform")
}

// IsEnabled always reports false on unsupported platforms
func (a *StubAutostart) IsEnabled() bool {
	return false
}
