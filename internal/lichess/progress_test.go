package lichess

import (
	"context"
	"testing"
	"time"
)

func TestEstimateProgress(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		size    int
		want    float64
	}{
		{0, 100, 0.05},
		{-time.Second, 100, 0.05},
		{time.Second, 100, 0.15},
		{3500 * time.Millisecond, 100, 0.35},
		{time.Second, 50, 0.25},
		{time.Hour, 100, 0.95},
		{4 * time.Second, 0, 0.25},
	}

	for _, tt := range tests {
		got := EstimateProgress(tt.elapsed, tt.size)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("EstimateProgress(%v, %d) = %v, want %v", tt.elapsed, tt.size, got, tt.want)
		}
	}
}

func TestEstimateProgress_Monotonic(t *testing.T) {
	prev := 0.0
	for d := time.Duration(0); d < time.Minute; d += 250 * time.Millisecond {
		p := EstimateProgress(d, 500)
		if p < prev {
			t.Fatalf("EstimateProgress(%v) = %v, below previous %v", d, p, prev)
		}
		if p > ProgressCeiling {
			t.Fatalf("EstimateProgress(%v) = %v, above ceiling", d, p)
		}
		prev = p
	}
}

func TestWatchProgress(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1200*time.Millisecond)
	defer cancel()

	var got []float64
	WatchProgress(ctx, 50, func(f float64) { got = append(got, f) })

	if len(got) < 2 {
		t.Fatalf("WatchProgress() reported %v, want at least two estimates", got)
	}
	if got[0] != ProgressStart {
		t.Errorf("first estimate = %v, want %v", got[0], ProgressStart)
	}
}
