package cachedtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNowTracksWallClock(t *testing.T) {
	require.WithinDuration(t, time.Now(), Now(), 5*resolution)
}

func TestNowAdvances(t *testing.T) {
	before := Now()
	time.Sleep(5 * resolution)
	require.True(t, Now().After(before))
}

func TestSince(t *testing.T) {
	past := Now().Add(-time.Minute)
	require.InDelta(t, time.Minute, Since(past), float64(5*resolution))
}
