package render

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/genricoloni/muro/internal/domain"
	"go.uber.org/zap"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestAspectWithinTolerance(t *testing.T) {
	res := &domain.ScreenResolution{Width: 1920, Height: 1080} // ratio 1.778

	tests := []struct {
		name   string
		photo  domain.Photo
		tol    float64
		within bool
	}{
		{
			name:   "exact match",
			photo:  domain.Photo{Width: 3840, Height: 2160},
			tol:    0.1,
			within: true,
		},
		{
			name:   "16:10 within default tolerance",
			photo:  domain.Photo{Width: 1920, Height: 1200}, // ratio 1.6
			tol:    0.2,
			within: true,
		},
		{
			name:   "16:10 outside tight tolerance",
			photo:  domain.Photo{Width: 1920, Height: 1200},
			tol:    0.1,
			within: false,
		},
		{
			name:   "portrait rejected",
			photo:  domain.Photo{Width: 1080, Height: 1920},
			tol:    0.1,
			within: false,
		},
		{
			name:   "zero dimensions never match",
			photo:  domain.Photo{Width: 0, Height: 0},
			tol:    1,
			within: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AspectWithinTolerance(tt.photo, res, tt.tol); got != tt.within {
				t.Errorf("expected within=%v, got %v", tt.within, got)
			}
		})
	}
}

func TestSaveFittedDownscales(t *testing.T) {
	res := &domain.ScreenResolution{Width: 640, Height: 360}
	data := encodeJPEG(t, 1280, 720)
	path := filepath.Join(t.TempDir(), "wallpapers", "wallpaper_x.jpg")

	if err := SaveFitted(zap.NewNop(), data, path, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		t.Fatalf("saved file is not decodable: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}
	if b := img.Bounds(); b.Dx() > res.Width || b.Dy() > res.Height {
		t.Errorf("expected image fitted to %dx%d, got %dx%d", res.Width, res.Height, b.Dx(), b.Dy())
	}
}

func TestSaveFittedKeepsSmallImages(t *testing.T) {
	res := &domain.ScreenResolution{Width: 1920, Height: 1080}
	data := encodeJPEG(t, 320, 180)
	path := filepath.Join(t.TempDir(), "wallpaper_small.jpg")

	if err := SaveFitted(zap.NewNop(), data, path, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 180 {
		t.Errorf("expected 320x180 untouched, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestSaveFittedRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallpaper_bad.jpg")
	err := SaveFitted(zap.NewNop(), []byte("not an image"), path, &domain.ScreenResolution{Width: 1920, Height: 1080})
	if err == nil {
		t.Fatal("expected a decode error")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("expected no file written on decode failure, stat err: %v", statErr)
	}
}
