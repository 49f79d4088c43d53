package rate

import (
	"context"

	"go.uber.org/ratelimit"
)

// Jitter turns a leaky-bucket limiter into a channel of permits so callers
// can select on it alongside a context. A small burst capacity absorbs
// short spikes without breaking the average rate.
type Jitter struct {
	ch    chan struct{}
	l     ratelimit.Limiter
	limit int
}

func NewJitter(ctx context.Context, limit int) *Jitter {
	burst := int(float64(limit) * 0.1)
	if burst < 1 {
		burst = 1
	}
	j := &Jitter{
		limit: limit,
		ch:    make(chan struct{}, burst),
		l:     ratelimit.New(limit),
	}
	go j.provider(ctx)
	return j
}

func (j *Jitter) provider(ctx context.Context) {
	defer close(j.ch)
	for {
		j.l.Take()
		select {
		case <-ctx.Done():
			return
		case j.ch <- struct{}{}:
		}
	}
}

// Take blocks until a permit is available. It returns immediately once the
// feeding context is canceled.
func (j *Jitter) Take() {
	<-j.ch
}

func (j *Jitter) Chan() <-chan struct{} {
	return j.ch
}
