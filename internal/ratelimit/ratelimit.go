package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate paces outbound API requests: at most one request may start per
// configured interval, shared across every caller holding the same Gate.
type Gate struct {
	limiter *rate.Limiter
}

// NewGate creates a pacing gate with the given minimum spacing between
// request starts. A non-positive interval falls back to one second.
func NewGate(interval time.Duration) *Gate {
	if interval <= 0 {
		interval = time.Second
	}
	return &Gate{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Wait blocks until a request may start or the context is cancelled.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}
