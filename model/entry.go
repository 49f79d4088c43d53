package model

import (
	"time"

	"github.com/kvolkow/go-image-cache/internal/shared/cachedtime"
)

// Entry is the per-key bookkeeping record. The disk tier persists it in the
// catalog; the memory tier holds it transiently next to the payload.
type Entry struct {
	Key            string    `json:"key"`
	SizeBytes      int64     `json:"size_bytes"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	AccessCount    int64     `json:"access_count"`
	Source         Source    `json:"source"`
	Format         string    `json:"format"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
}

func NewEntry(v *Value) *Entry {
	now := cachedtime.Now()
	return &Entry{
		Key:            v.CacheKey(),
		SizeBytes:      v.SizeBytes(),
		CreatedAt:      now,
		LastAccessedAt: now,
		AccessCount:    1,
		Source:         v.Source,
		Format:         v.Format,
		Width:          v.Width,
		Height:         v.Height,
	}
}

// Touch renews the access fields on a hit.
func (e *Entry) Touch() {
	e.LastAccessedAt = cachedtime.Now()
	e.AccessCount++
}

// Expired reports whether the entry outlived ttl. A ttl <= 0 means entries
// never expire by time.
func (e *Entry) Expired(ttl time.Duration) bool {
	if e == nil || ttl <= 0 {
		return false
	}
	return cachedtime.Since(e.CreatedAt) > ttl
}
