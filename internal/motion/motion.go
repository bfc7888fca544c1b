// Package motion advances targets one fixed step and bounces them off the
// surface edges.
package motion

import (
	"math"
	"time"

	"aimtrainer/internal/targets"
)

// Step drops expired targets, then moves the survivors. It returns how many
// targets expired.
func Step(set *targets.Set, now time.Time, width, height float64, lifespan time.Duration) int {
	expired := set.RemoveIf(func(t targets.Target) bool {
		return targets.IsExpired(t, now, lifespan)
	})
	set.Update(func(t targets.Target) targets.Target {
		return Move(t, width, height)
	})
	return expired
}

// Move applies one step and reflects velocity on each axis independently.
// The new position is kept even when the edge pokes out; the reversed
// velocity brings it back next step. The center never leaves the surface.
func Move(t targets.Target, width, height float64) targets.Target {
	x, y := targets.Advance(t)
	t.VX = Reflect(x, t.Radius, width, t.VX)
	t.VY = Reflect(y, t.Radius, height, t.VY)
	t.X = clamp(x, 0, width)
	t.Y = clamp(y, 0, height)
	return t
}

// Reflect returns the velocity component after checking the edges at
// pos±r against [0, extent]. Velocity is pointed back inward rather than
// blindly negated, so a target already past an edge cannot jitter there.
func Reflect(pos, r, extent, v float64) float64 {
	switch {
	case pos-r < 0 && pos+r > extent:
		return v
	case pos-r < 0:
		return math.Abs(v)
	case pos+r > extent:
		return -math.Abs(v)
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
