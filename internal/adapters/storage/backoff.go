package storage

import (
	"context"
	"math/rand"
	"time"
)

// backoff is an exponential delay with +/-20% jitter.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	return &backoff{initial: initial, max: max, current: initial}
}

// Wait sleeps for the current delay, then doubles it up to max.
// It returns early with ctx.Err() when ctx is done.
func (b *backoff) Wait(ctx context.Context) error {
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	timer := time.NewTimer(time.Duration(float64(b.current) + jitter))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return nil
}

// pingWithRetry pings up to attempts times, backing off between tries.
func pingWithRetry(ctx context.Context, ping func(context.Context) error, attempts int, b *backoff) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = ping(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		if werr := b.Wait(ctx); werr != nil {
			return err
		}
	}
	return err
}
