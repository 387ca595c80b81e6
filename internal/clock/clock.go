// Package clock abstracts time so simulated latency can be fast-forwarded in tests.
package clock

import (
	"context"
	"math/rand/v2"
	"time"
)

// Clock is the time source used for every simulated delay.
type Clock interface {
	Now() time.Time

	// AfterFunc calls f in its own goroutine (real clock) or from Advance
	// (fake clock) once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call.
type Timer interface {
	// Stop prevents the call from firing. It reports whether the call was still pending.
	Stop() bool
}

// Rand is the randomness source for jittered delays.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// GlobalRand returns a Rand drawing from the math/rand/v2 top-level source.
func GlobalRand() Rand { return globalRand{} }

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Between draws a duration uniformly from [min, max).
// It returns min when max <= min.
func Between(r Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(r.Float64()*float64(max-min))
}

// Sleep waits for d on c, returning early with ctx.Err() if ctx is done first.
// A non-positive d returns immediately.
func Sleep(ctx context.Context, c Clock, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	t := c.AfterFunc(d, func() { close(done) })
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		t.Stop()
		return ctx.Err()
	}
}
