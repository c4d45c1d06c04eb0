//go:build windows

package executor

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/lxn/win"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

const (
	spiSetDeskWallpaper = 0x0014
	spifUpdateINIFile   = 0x0001
	spifSendChange      = 0x0002
)

// WindowsExecutor applies wallpapers through SystemParametersInfo
type WindowsExecutor struct {
	logger *zap.Logger
}

// New creates a platform-specific wallpaper executor (Windows implementation)
func New(logger *zap.Logger) (*WindowsExecutor, error) {
	logger.Info("Windows wallpaper setter initialized")
	return &WindowsExecutor{logger: logger}, nil
}

// SetWallpaper sets the desktop wallpaper using the Windows API
func (e *WindowsExecutor) SetWallpaper(ctx context.Context, imagePath string) error {
	e.logger.Debug("Setting wallpaper", zap.String("path", imagePath))

	p, err := windows.UTF16PtrFromString(imagePath)
	if err != nil {
		return fmt.Errorf("encode wallpaper path: %w", err)
	}

	ok := win.SystemParametersInfo(
		spiSetDeskWallpaper,
		0,
		unsafe.Pointer(p),
		spifUpdateINIFile|spifSendChange,
	)
	if !ok {
		return fmt.Errorf("SystemParametersInfo refused wallpaper %q", imagePath)
	}

	e.logger.Info("Wallpaper set", zap.String("path", imagePath))
	return nil
}
