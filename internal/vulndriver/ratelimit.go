package vulndriver

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// SettlePacer paces step execution so the driver never hammers a target
// faster than the configured rate, independent of the per-step settle
// window. One pacer is shared across every session a Driver hands out,
// matching the "single shared Driver" model (spec.md §5).
type SettlePacer struct {
	limiter *rate.Limiter
}

// NewSettlePacer builds a pacer allowing up to stepsPerSecond steps,
// bursting up to burst at once. stepsPerSecond <= 0 disables pacing.
func NewSettlePacer(stepsPerSecond float64, burst int) *SettlePacer {
	if stepsPerSecond <= 0 {
		return &SettlePacer{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst < 1 {
		burst = 1
	}
	return &SettlePacer{limiter: rate.NewLimiter(rate.Limit(stepsPerSecond), burst)}
}

// Wait blocks until the pacer admits the next step or ctx is done.
func (p *SettlePacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// defaultSettleWindow is how long a page context waits for in-flight
// network activity to quiet down after a payload-bearing step, absent an
// earlier network-idle signal (spec.md §4.4/§5).
const defaultSettleWindow = 30 * time.Second
