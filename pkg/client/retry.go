package client

import (
	"math"
	"math/rand/v2"
	"time"
)

// Retryer decides how long to wait before redialing a dropped event feed.
type Retryer interface {
	// NextDelay returns the wait before retry number attempt (0-based) and
	// whether to retry at all.
	NextDelay(attempt int, lastErr error) (time.Duration, bool)

	// Reset is called after a successful connection.
	Reset()
}

// Backoff waits exponentially longer between attempts, up to MaxDelay.
type Backoff struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// MaxRetries stops retrying after that many attempts; 0 retries forever.
	MaxRetries int
	// JitterFactor spreads each delay by up to that fraction in either direction.
	JitterFactor float64
}

// NewBackoff returns a Backoff starting at one second and capped at thirty,
// with 20% jitter.
func NewBackoff() *Backoff {
	return &Backoff{
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2,
		JitterFactor: 0.2,
	}
}

func (b *Backoff) NextDelay(attempt int, _ error) (time.Duration, bool) {
	if b.MaxRetries > 0 && attempt >= b.MaxRetries {
		return 0, false
	}
	delay := float64(b.InitialDelay) * math.Pow(b.Multiplier, float64(attempt))
	if limit := float64(b.MaxDelay); limit > 0 && delay > limit {
		delay = limit
	}
	if b.JitterFactor > 0 {
		delay += delay * b.JitterFactor * (2*rand.Float64() - 1)
	}
	if delay < 0 {
		delay = float64(b.InitialDelay)
	}
	return time.Duration(delay), true
}

func (b *Backoff) Reset() {}

// FixedDelay waits the same time between attempts.
type FixedDelay struct {
	Delay      time.Duration
	MaxRetries int
}

func (f *FixedDelay) NextDelay(attempt int, _ error) (time.Duration, bool) {
	if f.MaxRetries > 0 && attempt >= f.MaxRetries {
		return 0, false
	}
	return f.Delay, true
}

func (f *FixedDelay) Reset() {}
