package cachedtime

import (
	"sync/atomic"
	"time"
)

// Wall-clock reads served from a coarse cached value so hot cache paths avoid
// a syscall per timestamp. Resolution is plenty for recency bookkeeping.
const resolution = 10 * time.Millisecond

var nowUnix atomic.Int64

func init() {
	nowUnix.Store(time.Now().UnixNano())
	go func() {
		ticker := time.NewTicker(resolution)
		defer ticker.Stop()
		for tt := range ticker.C {
			nowUnix.Store(tt.UnixNano())
		}
	}()
}

func Now() time.Time { return time.Unix(0, nowUnix.Load()) }

func Since(t time.Time) time.Duration { return Now().Sub(t) }
