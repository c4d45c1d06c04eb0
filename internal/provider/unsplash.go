// Package provider implements the Unsplash image provider collaborator.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/genricoloni/muro/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.unsplash.com"

	// Bounds the wait of every provider call so a scheduler tick can
	// never hang on the network
	requestTimeout  = 10 * time.Second
	downloadTimeout = 60 * time.Second

	_maxImageSize = 50 * 1024 * 1024 // 50 MB
)

// ErrNoResults means the search succeeded but returned no photos
var ErrNoResults = errors.New("provider returned no photos")

// UnsplashClient queries the Unsplash random-photo endpoint and downloads
// image bytes. The access key travels with each request's Config, so a
// live key change needs no reconnect.
type UnsplashClient struct {
	logger   *zap.Logger
	client   *http.Client
	download *http.Client
	baseURL  string
}

// NewUnsplashClient creates a provider client with bounded-wait HTTP clients
func NewUnsplashClient(logger *zap.Logger) *UnsplashClient {
	return &UnsplashClient{
		logger:  logger,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: requestTimeout,
		},
		// Full-resolution images take longer than an API round trip,
		// but still must not hang forever
		download: &http.Client{
			Timeout: downloadTimeout,
		},
	}
}

// unsplashPhoto mirrors the subset of the API response we consume
type unsplashPhoto struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	URLs           struct {
		Full string `json:"full"`
	} `json:"urls"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
	Links struct {
		HTML string `json:"html"`
	} `json:"links"`
}

// Random returns one candidate landscape photo from the configured
// collections. Empty result sets and API failures are both errors; no
// state is touched on either.
func (c *UnsplashClient) Random(ctx context.Context, cfg domain.Config) (domain.Photo, error) {
	if strings.TrimSpace(cfg.AccessKey) == "" {
		return domain.Photo{}, errors.New("access key is not configured (run 'muro config set access_key <KEY>')")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/photos/random", nil)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+strings.TrimSpace(cfg.AccessKey))
	req.Header.Set("User-Agent", "muro/1.0")

	q := req.URL.Query()
	q.Set("collections", strings.Join(cfg.Collections, ","))
	q.Set("orientation", "landscape")
	q.Set("count", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Photo{}, fmt.Errorf("provider API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var photos []unsplashPhoto
	if err := json.NewDecoder(resp.Body).Decode(&photos); err != nil {
		return domain.Photo{}, fmt.Errorf("parse provider response: %w", err)
	}
	if len(photos) == 0 {
		return domain.Photo{}, ErrNoResults
	}

	p := photos[0]
	title := p.Description
	if title == "" {
		title = p.AltDescription
	}

	c.logger.Debug("Photo selected",
		zap.String("id", p.ID),
		zap.Int("width", p.Width),
		zap.Int("height", p.Height),
		zap.String("author", p.User.Name))

	return domain.Photo{
		ID:          p.ID,
		DownloadURL: p.URLs.Full,
		Title:       title,
		Author:      p.User.Name,
		PageURL:     p.Links.HTML,
		Width:       p.Width,
		Height:      p.Height,
	}, nil
}

// Download retrieves the raw image bytes for a photo URL
func (c *UnsplashClient) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("User-Agent", "muro/1.0")

	resp, err := c.download.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: unexpected status code %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("url is not an image: %s", ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, _maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}

	c.logger.Debug("Image downloaded", zap.Int("bytes", len(data)), zap.String("url", url))
	return data, nil
}
