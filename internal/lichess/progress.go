package lichess

import (
	"context"
	"time"
)

// Progress bounds. The estimate starts at ProgressStart and never passes
// ProgressCeiling; only completion reports 1.
const (
	ProgressStart   = 0.05
	ProgressStep    = 0.1
	ProgressCeiling = 0.95
)

// TickInterval is how long one progress step takes for an export of size
// games. Larger exports advance more slowly.
func TickInterval(size int) time.Duration {
	switch {
	case size <= 0:
		return 2 * time.Second
	case size <= 50:
		return 500 * time.Millisecond
	case size <= 100:
		return time.Second
	case size <= 500:
		return 1800 * time.Millisecond
	case size <= 1000:
		return 2 * time.Second
	}
	return 3 * time.Second
}

// EstimateProgress returns an advisory completion fraction in
// [ProgressStart, ProgressCeiling] for an export of size games that has
// been running for elapsed. The server does not report progress, so
// this is a guess driven by the clock only.
func EstimateProgress(elapsed time.Duration, size int) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	steps := int(elapsed / TickInterval(size))
	p := ProgressStart + float64(steps)*ProgressStep
	if p > ProgressCeiling {
		return ProgressCeiling
	}
	return p
}

// ProgressFunc is called with each estimate.
type ProgressFunc func(fraction float64)

// WatchProgress calls fn with a fresh estimate every tick until ctx is
// done. It blocks, so run it in its own goroutine.
func WatchProgress(ctx context.Context, size int, fn ProgressFunc) {
	start := time.Now()
	ticker := time.NewTicker(TickInterval(size))
	defer ticker.Stop()

	fn(EstimateProgress(0, size))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(EstimateProgress(time.Since(start), size))
		}
	}
}
