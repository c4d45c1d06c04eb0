package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/muro/internal/domain"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		w    domain.Wallpaper
		want string
	}{
		{
			name: "title and author",
			w:    domain.Wallpaper{ID: "x", Title: "Dunes", Author: "Ana"},
			want: "Dunes by Ana",
		},
		{
			name: "author only",
			w:    domain.Wallpaper{ID: "x", Author: "Ana"},
			want: "by Ana",
		},
		{
			name: "title only",
			w:    domain.Wallpaper{ID: "x", Title: "Dunes"},
			want: "Dunes",
		},
		{
			name: "bare id fallback",
			w:    domain.Wallpaper{ID: "x"},
			want: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.w); got != tt.want {
				t.Errorf("describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderHistory(t *testing.T) {
	doc := domain.DefaultDocument()
	doc.History = []domain.Wallpaper{
		{ID: "a", Title: "Older dunes", Author: "Ana", AppliedAt: time.Now().Add(-time.Hour)},
		{ID: "b", Title: "Newest ridge", Author: "Ben", AppliedAt: time.Now()},
	}
	doc.State.CurrentHistoryIndex = 1
	doc.State.CurrentWallpaperID = "b"

	var buf bytes.Buffer
	if err := renderHistory(&buf, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	// Newest first, with the pointer marker on the shown index
	newest := strings.Index(out, "Newest ridge")
	older := strings.Index(out, "Older dunes")
	if newest < 0 || older < 0 {
		t.Fatalf("expected both entries in output:\n%s", out)
	}
	if newest > older {
		t.Errorf("expected newest entry first:\n%s", out)
	}
	if !strings.Contains(out, "0 *") {
		t.Errorf("expected marker on the current entry:\n%s", out)
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(nil); got != "-" {
		t.Errorf("expected placeholder for nil time, got %q", got)
	}

	at := time.Date(2026, 8, 24, 9, 30, 0, 0, time.Local)
	if got := formatTime(&at); got != "2026-08-24 09:30" {
		t.Errorf("unexpected formatting %q", got)
	}
}
