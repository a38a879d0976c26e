// Package document downloads remote documents and extracts their text.
package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultMaxBytes  = 50 << 20
	defaultUserAgent = "brevity/1.0"
)

// ErrTooLarge is returned when a document exceeds the configured size.
var ErrTooLarge = errors.New("document exceeds size limit")

// FetcherConfig configures Fetcher.
type FetcherConfig struct {
	TempDir   string
	MaxBytes  int64
	Timeout   time.Duration
	UserAgent string
}

// Fetcher downloads documents over HTTP into uniquely named temp files.
type Fetcher struct {
	cfg        FetcherConfig
	httpClient *http.Client
}

// NewFetcher builds a fetcher. A nil httpClient gets one with cfg.Timeout.
func NewFetcher(cfg FetcherConfig, httpClient *http.Client) *Fetcher {
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{cfg: cfg, httpClient: httpClient}
}

// Download fetches rawURL to disk. Non-2xx answers yield *summarizer.RemoteStatusError.
func (f *Fetcher) Download(ctx context.Context, rawURL string) (summarizer.DownloadedFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return summarizer.DownloadedFile{}, fmt.Errorf("build document request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return summarizer.DownloadedFile{}, fmt.Errorf("document request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return summarizer.DownloadedFile{}, &summarizer.RemoteStatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	if resp.ContentLength > f.cfg.MaxBytes {
		return summarizer.DownloadedFile{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}

	if err := os.MkdirAll(f.cfg.TempDir, 0o755); err != nil {
		return summarizer.DownloadedFile{}, fmt.Errorf("create temp dir: %w", err)
	}
	local := filepath.Join(f.cfg.TempDir, uuid.NewString()+extension(rawURL))
	out, err := os.Create(local)
	if err != nil {
		return summarizer.DownloadedFile{}, fmt.Errorf("create temp file: %w", err)
	}

	n, err := io.Copy(out, io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	closeErr := out.Close()
	if err == nil && n > f.cfg.MaxBytes {
		err = fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.cfg.MaxBytes)
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(local)
		return summarizer.DownloadedFile{}, fmt.Errorf("write document: %w", err)
	}

	return summarizer.DownloadedFile{
		URL:         rawURL,
		Path:        local,
		Size:        n,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// Remove deletes the local copy. A file that is already gone is not an error.
func (f *Fetcher) Remove(file summarizer.DownloadedFile) error {
	if file.Path == "" {
		return nil
	}
	if err := os.Remove(file.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", file.Path, err)
	}
	return nil
}

// extension keeps the URL path suffix so extractors can use it as a hint.
func extension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := path.Ext(u.Path)
	if len(ext) > 10 || strings.ContainsAny(ext, `\/`) {
		return ""
	}
	return strings.ToLower(ext)
}

var _ summarizer.DocumentSource = (*Fetcher)(nil)
