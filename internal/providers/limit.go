package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limited throttles calls to a Rater with a token bucket.
type Limited struct {
	rater   Rater
	limiter *rate.Limiter
}

// NewLimited allows perSecond calls per second to r, with bursts of up to
// burst calls. burst below 1 is treated as 1.
func NewLimited(r Rater, perSecond float64, burst int) *Limited {
	if burst < 1 {
		burst = 1
	}
	return &Limited{
		rater:   r,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (l *Limited) Name() string { return l.rater.Name() }

func (l *Limited) RateLine(ctx context.Context, code string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limit: %w", err)
	}
	return l.rater.RateLine(ctx, code)
}
