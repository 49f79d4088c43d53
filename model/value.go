package model

import "context"

// Value is a loaded media payload plus the last-mile metadata the cache keeps
// in its catalogs. The cache never mutates a Value after handing it out, so a
// single instance may be shared by any number of concurrent readers.
type Value struct {
	Payload []byte
	Format  string
	Width   int
	Height  int
	Source  Source
}

func NewValue(payload []byte, format string, width, height int, src Source) *Value {
	return &Value{
		Payload: payload,
		Format:  format,
		Width:   width,
		Height:  height,
		Source:  src,
	}
}

func (v *Value) SizeBytes() int64 { return int64(len(v.Payload)) }

func (v *Value) CacheKey() string { return v.Source.CacheKey() }

// Loader materializes a Value from its Source. Implementations may block on
// network or disk I/O; errors propagate unchanged to the cache's caller.
type Loader interface {
	Load(ctx context.Context, src Source) (*Value, error)
}
