// Package backoff spaces out retries of dials and other calls to flaky dependencies
package backoff

import (
	"context"
	"time"
)

// Strategy returns the wait before retry number count
type Strategy func(count int, start time.Duration) time.Duration

// Exponential doubles the wait on every retry
func Exponential(count int, start time.Duration) time.Duration {
	if count > 30 {
		count = 30
	}
	return start << uint(count)
}

// Linear grows the wait by start on every retry; the first retry does not wait
func Linear(count int, start time.Duration) time.Duration {
	return time.Duration(count) * start
}

type Backoff struct {
	LastDuration time.Duration
	NextDuration time.Duration
	start        time.Duration
	limit        time.Duration
	count        int
	strategy     Strategy
}

// NewBackoff caps every wait at limit unless limit is 0
func NewBackoff(strategy Strategy, start time.Duration, limit time.Duration) *Backoff {
	b := &Backoff{strategy: strategy, start: start, limit: limit}
	b.Reset()
	return b
}

func NewExponential(start time.Duration, limit time.Duration) *Backoff {
	return NewBackoff(Exponential, start, limit)
}

func NewLinear(start time.Duration, limit time.Duration) *Backoff {
	return NewBackoff(Linear, start, limit)
}

func (b *Backoff) Reset() {
	b.count = 0
	b.LastDuration = 0
	b.NextDuration = b.next()
}

// Backoff sleeps for NextDuration. It returns ctx.Err() without advancing if ctx is done first.
func (b *Backoff) Backoff(ctx context.Context) error {
	t := time.NewTimer(b.NextDuration)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}

	b.count++
	b.LastDuration = b.NextDuration
	b.NextDuration = b.next()
	return nil
}

func (b *Backoff) next() time.Duration {
	d := b.strategy(b.count, b.start)
	if b.limit > 0 && d > b.limit {
		d = b.limit
	}
	return d
}
