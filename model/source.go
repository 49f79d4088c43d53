package model

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// SourceKind discriminates how a payload is materialized.
type SourceKind string

const (
	SourceURL    SourceKind = "url"
	SourceFile   SourceKind = "file"
	SourceBytes  SourceKind = "bytes"
	SourceBase64 SourceKind = "base64"
	SourceAsset  SourceKind = "asset"
)

// Source identifies where a payload comes from. It round-trips through the
// disk catalog, so both fields are plain strings. Raw byte sources keep their
// data base64-encoded in Ref so they survive serialization and reloads.
type Source struct {
	Kind SourceKind `json:"kind"`
	Ref  string     `json:"ref"`
}

func URL(u string) Source     { return Source{Kind: SourceURL, Ref: u} }
func File(path string) Source { return Source{Kind: SourceFile, Ref: path} }
func Asset(name string) Source {
	return Source{Kind: SourceAsset, Ref: name}
}

func Bytes(data []byte) Source {
	return Source{Kind: SourceBytes, Ref: base64.StdEncoding.EncodeToString(data)}
}

func Base64(data string) Source {
	return Source{Kind: SourceBase64, Ref: data}
}

// ParseSource guesses the kind from a raw string: http(s) schemes become URL
// sources, data URLs become base64 sources, anything else is a file path.
func ParseSource(s string) Source {
	switch {
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return URL(s)
	case strings.HasPrefix(s, "data:image/"):
		if i := strings.IndexByte(s, ','); i >= 0 {
			return Base64(s[i+1:])
		}
		return Base64(s)
	default:
		return File(s)
	}
}

// CacheKey derives a deterministic, filename-safe identifier for the source.
// Logically equal sources yield equal keys so tier lookups coalesce.
func (s Source) CacheKey() string {
	sum := xxh3.HashString128(string(s.Kind) + ":" + s.Ref)
	return fmt.Sprintf("%016x%016x", sum.Hi, sum.Lo)
}

func (s Source) IsZero() bool { return s.Kind == "" && s.Ref == "" }

func (s Source) String() string { return string(s.Kind) + ":" + s.Ref }
