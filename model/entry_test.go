package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testValue(size int) *Value {
	return NewValue(make([]byte, size), "png", 100, 50, URL("https://example.com/test.png"))
}

func TestNewEntryFromValue(t *testing.T) {
	v := testValue(1000)
	e := NewEntry(v)

	require.Equal(t, v.CacheKey(), e.Key)
	require.Equal(t, int64(1000), e.SizeBytes)
	require.Equal(t, int64(1), e.AccessCount)
	require.Equal(t, 100, e.Width)
	require.Equal(t, 50, e.Height)
	require.Equal(t, v.Source, e.Source)
	require.False(t, e.LastAccessedAt.Before(e.CreatedAt))
}

func TestEntryTouch(t *testing.T) {
	e := NewEntry(testValue(10))
	before := e.LastAccessedAt

	e.Touch()
	require.Equal(t, int64(2), e.AccessCount)
	require.False(t, e.LastAccessedAt.Before(before))
}

func TestEntryExpired(t *testing.T) {
	e := NewEntry(testValue(10))

	require.False(t, e.Expired(0), "zero ttl means never expire")
	require.False(t, e.Expired(time.Hour))

	e.CreatedAt = e.CreatedAt.Add(-2 * time.Hour)
	require.True(t, e.Expired(time.Hour))

	var nilEntry *Entry
	require.False(t, nilEntry.Expired(time.Hour))
}
