package loader

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvolkow/go-image-cache/model"
)

// pngBytes encodes a small solid PNG of the given dimensions.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSniffFormat(t *testing.T) {
	cases := []struct {
		name    string
		payload []byte
		want    string
	}{
		{"png", []byte("\x89PNG\r\n\x1a\nrest"), FormatPNG},
		{"jpeg", []byte("\xff\xd8\xff\xe0rest"), FormatJPEG},
		{"gif87", []byte("GIF87arest"), FormatGIF},
		{"gif89", []byte("GIF89arest"), FormatGIF},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), FormatWebP},
		{"bmp", []byte("BMrest"), FormatBMP},
		{"tiff-le", []byte("II*\x00rest"), FormatTIFF},
		{"tiff-be", []byte("MM\x00*rest"), FormatTIFF},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), FormatSVG},
		{"svg-xml-prolog", []byte("<?xml version=\"1.0\"?>\n<svg/>"), FormatSVG},
		{"garbage", []byte("not an image"), FormatUnknown},
		{"empty", nil, FormatUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SniffFormat(tc.payload))
		})
	}
}

func TestLoadFromBytes(t *testing.T) {
	l := New(Config{})
	payload := pngBytes(t, 3, 2)

	v, err := l.Load(context.Background(), model.Bytes(payload))
	require.NoError(t, err)
	require.Equal(t, payload, v.Payload)
	require.Equal(t, FormatPNG, v.Format)
	require.Equal(t, 3, v.Width)
	require.Equal(t, 2, v.Height)
}

func TestLoadFromFile(t *testing.T) {
	l := New(Config{})
	payload := pngBytes(t, 4, 4)
	path := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	v, err := l.Load(context.Background(), model.File(path))
	require.NoError(t, err)
	require.Equal(t, payload, v.Payload)
	require.Equal(t, 4, v.Width)
}

func TestLoadFromAsset(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), pngBytes(t, 2, 2), 0o644))

	l := New(Config{AssetDir: dir})
	v, err := l.Load(context.Background(), model.Asset("logo.png"))
	require.NoError(t, err)
	require.Equal(t, FormatPNG, v.Format)
}

func TestLoadFromURL(t *testing.T) {
	payload := pngBytes(t, 5, 3)
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	l := New(Config{})
	v, err := l.Load(context.Background(), model.URL(srv.URL+"/pic.png"))
	require.NoError(t, err)
	require.Equal(t, payload, v.Payload)
	require.Equal(t, 5, v.Width)
	require.Equal(t, 3, v.Height)
	require.Equal(t, defaultUserAgent, gotUA)
}

func TestLoadURLNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	l := New(Config{})
	_, err := l.Load(context.Background(), model.URL(srv.URL))
	require.ErrorContains(t, err, "unexpected status")
}

func TestLoadURLTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{0xff}, 2048))
	}))
	defer srv.Close()

	l := New(Config{MaxSizeBytes: 1024})
	_, err := l.Load(context.Background(), model.URL(srv.URL))
	require.ErrorContains(t, err, "limit")
}

func TestLoadFileTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o644))

	l := New(Config{MaxSizeBytes: 1024})
	_, err := l.Load(context.Background(), model.File(path))
	require.ErrorContains(t, err, "limit")
}

func TestLoadEmptyPayload(t *testing.T) {
	l := New(Config{})
	_, err := l.Load(context.Background(), model.Bytes(nil))
	require.ErrorIs(t, err, ErrEmptyPayload)
}

func TestLoadUnknownFormat(t *testing.T) {
	l := New(Config{})
	_, err := l.Load(context.Background(), model.Bytes([]byte("definitely not an image")))
	require.ErrorContains(t, err, "detect image format")
}

func TestLoadMissingFile(t *testing.T) {
	l := New(Config{})
	_, err := l.Load(context.Background(), model.File(filepath.Join(t.TempDir(), "absent.png")))
	require.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.adjust()

	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, int64(DefaultMaxSizeBytes), cfg.MaxSizeBytes)
	require.Equal(t, defaultUserAgent, cfg.UserAgent)
	require.Equal(t, defaultMaxRedirects, cfg.MaxRedirects)
	require.Equal(t, defaultAssetDir, cfg.AssetDir)
}
