package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTakeHonorsRate(t *testing.T) {
	j := NewJitter(context.Background(), 100)

	start := time.Now()
	for i := 0; i < 20; i++ {
		j.Take()
	}
	elapsed := time.Since(start)

	// 20 permits at 100/s take roughly 200ms minus the burst headroom.
	require.Less(t, elapsed, 2*time.Second)
	require.Greater(t, elapsed, 50*time.Millisecond)
}

func TestCancelUnblocksTake(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	j := NewJitter(ctx, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Drain far more permits than one second allows; cancellation must
		// release the waiter via the closed channel.
		for i := 0; i < 100; i++ {
			j.Take()
		}
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Take did not unblock after cancel")
	}
}
