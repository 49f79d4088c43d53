package loader

import (
	"bytes"
	"image"
	"strings"

	// Decoders registered for dimension probing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	FormatPNG     = "png"
	FormatJPEG    = "jpeg"
	FormatGIF     = "gif"
	FormatWebP    = "webp"
	FormatBMP     = "bmp"
	FormatTIFF    = "tiff"
	FormatSVG     = "svg"
	FormatUnknown = "unknown"
)

// SniffFormat identifies the image format from magic bytes.
func SniffFormat(payload []byte) string {
	switch {
	case bytes.HasPrefix(payload, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case bytes.HasPrefix(payload, []byte("\xff\xd8\xff")):
		return FormatJPEG
	case bytes.HasPrefix(payload, []byte("GIF87a")), bytes.HasPrefix(payload, []byte("GIF89a")):
		return FormatGIF
	case len(payload) >= 12 && bytes.HasPrefix(payload, []byte("RIFF")) && bytes.Equal(payload[8:12], []byte("WEBP")):
		return FormatWebP
	case bytes.HasPrefix(payload, []byte("BM")):
		return FormatBMP
	case bytes.HasPrefix(payload, []byte("II*\x00")), bytes.HasPrefix(payload, []byte("MM\x00*")):
		return FormatTIFF
	case looksLikeSVG(payload):
		return FormatSVG
	default:
		return FormatUnknown
	}
}

func looksLikeSVG(payload []byte) bool {
	head := strings.TrimLeft(string(payload[:min(len(payload), 512)]), " \t\r\n")
	return strings.HasPrefix(head, "<svg") || (strings.HasPrefix(head, "<?xml") && strings.Contains(head, "<svg"))
}

// probeDimensions decodes just the header of raster formats. SVG has no
// intrinsic pixel size, so it reports zero dimensions.
func probeDimensions(payload []byte, format string) (width, height int, err error) {
	if format == FormatSVG {
		return 0, 0, nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
