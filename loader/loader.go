// Package loader materializes Values from their sources: HTTP(S) URLs, local
// files, raw bytes, base64 blobs and bundled assets. It sniffs the image
// format from magic bytes and probes pixel dimensions before handing the
// payload to the cache.
package loader

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kvolkow/go-image-cache/model"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxSizeBytes = 50 << 20 // 50 MiB

	defaultUserAgent    = "go-image-cache/1"
	defaultMaxRedirects = 10
	defaultAssetDir     = "assets"
)

var ErrEmptyPayload = errors.New("empty payload")

type Config struct {
	// Timeout bounds a single HTTP fetch.
	Timeout time.Duration `yaml:"timeout"`

	// MaxSizeBytes rejects payloads larger than this before decoding.
	MaxSizeBytes int64 `yaml:"max_size"`

	UserAgent    string `yaml:"user_agent"`
	MaxRedirects int    `yaml:"max_redirects"`

	// AssetDir is the root for asset sources.
	AssetDir string `yaml:"asset_dir"`
}

func (cfg *Config) adjust() {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxSizeBytes <= 0 {
		cfg.MaxSizeBytes = DefaultMaxSizeBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = defaultMaxRedirects
	}
	if cfg.AssetDir == "" {
		cfg.AssetDir = defaultAssetDir
	}
}

type Loader struct {
	cfg    Config
	client *http.Client
}

func New(cfg Config) *Loader {
	cfg.adjust()
	return &Loader{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= cfg.MaxRedirects {
					return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
				}
				return nil
			},
		},
	}
}

// Load materializes the source into a Value with format and dimensions
// resolved.
func (l *Loader) Load(ctx context.Context, src model.Source) (*model.Value, error) {
	var (
		payload []byte
		err     error
	)

	switch src.Kind {
	case model.SourceURL:
		payload, err = l.fetch(ctx, src.Ref)
	case model.SourceFile:
		payload, err = l.readFile(src.Ref)
	case model.SourceAsset:
		payload, err = l.readFile(filepath.Join(l.cfg.AssetDir, src.Ref))
	case model.SourceBytes, model.SourceBase64:
		payload, err = base64.StdEncoding.DecodeString(src.Ref)
		if err != nil {
			err = fmt.Errorf("decode base64 payload: %w", err)
		}
	default:
		err = fmt.Errorf("unsupported source kind %q", src.Kind)
	}
	if err != nil {
		return nil, err
	}

	return l.decode(payload, src)
}

func (l *Loader) decode(payload []byte, src model.Source) (*model.Value, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	if int64(len(payload)) > l.cfg.MaxSizeBytes {
		return nil, fmt.Errorf("payload of %d bytes exceeds limit of %d", len(payload), l.cfg.MaxSizeBytes)
	}

	format := SniffFormat(payload)
	if format == FormatUnknown {
		return nil, errors.New("unable to detect image format")
	}

	width, height, err := probeDimensions(payload, format)
	if err != nil {
		return nil, fmt.Errorf("probe dimensions: %w", err)
	}

	return model.NewValue(payload, format, width, height, src), nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", l.cfg.UserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	if resp.ContentLength > l.cfg.MaxSizeBytes {
		return nil, fmt.Errorf("fetch %s: %d bytes exceeds limit of %d", url, resp.ContentLength, l.cfg.MaxSizeBytes)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, l.cfg.MaxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}
	if int64(len(payload)) > l.cfg.MaxSizeBytes {
		return nil, fmt.Errorf("fetch %s: body exceeds limit of %d", url, l.cfg.MaxSizeBytes)
	}
	return payload, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > l.cfg.MaxSizeBytes {
		return nil, fmt.Errorf("file %s: %d bytes exceeds limit of %d", path, info.Size(), l.cfg.MaxSizeBytes)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return payload, nil
}
