// Package render turns downloaded image bytes into cache files sized for
// the primary display.
package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/muro/internal/domain"
	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

const jpegQuality = 90

// NewScreenResolution detects the primary screen resolution at startup
func NewScreenResolution(logger *zap.Logger) *domain.ScreenResolution {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		logger.Warn("No active displays detected, falling back to 1920x1080")
		return &domain.ScreenResolution{Width: 1920, Height: 1080}
	}

	// Use primary monitor (index 0)
	bounds := screenshot.GetDisplayBounds(0)
	res := &domain.ScreenResolution{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}

	logger.Info("Screen resolution detected",
		zap.Int("width", res.Width),
		zap.Int("height", res.Height))

	return res
}

// AspectWithinTolerance reports whether the photo's aspect ratio deviates
// from the screen's by at most tol. Degenerate dimensions never match.
func AspectWithinTolerance(photo domain.Photo, res *domain.ScreenResolution, tol float64) bool {
	pr := photo.AspectRatio()
	sr := res.AspectRatio()
	if pr == 0 || sr == 0 {
		return false
	}
	return math.Abs(pr-sr) <= tol
}

// SaveFitted decodes the image, downscales anything larger than the
// screen (preserving aspect ratio), and writes a JPEG to path. The write
// is temp-then-rename so an interrupted download never leaves a
// half-written file under a filename history may reference.
func SaveFitted(logger *zap.Logger, data []byte, path string, res *domain.ScreenResolution) error {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	if bounds.Dx() > res.Width || bounds.Dy() > res.Height {
		logger.Debug("Downscaling image to screen",
			zap.Int("src_w", bounds.Dx()), zap.Int("src_h", bounds.Dy()),
			zap.Int("dst_w", res.Width), zap.Int("dst_h", res.Height))
		img = imaging.Fit(img, res.Width, res.Height, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create wallpaper file: %w", err)
	}
	if err := imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode wallpaper: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close wallpaper file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename wallpaper file: %w", err)
	}

	logger.Debug("Wallpaper file written",
		zap.String("path", path),
		zap.String("source_format", format))
	return nil
}
