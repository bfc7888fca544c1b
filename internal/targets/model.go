package targets

import (
	"math"
	"time"
)

// Target is one live, hittable circle on the play surface. Radius is fixed at
// spawn; VX/VY are a per-frame displacement.
type Target struct {
	ID        int
	X         float64
	Y         float64
	Radius    float64
	VX        float64
	VY        float64
	Color     string
	CreatedAt time.Time
}

// Advance returns the position one fixed step ahead.
func Advance(t Target) (x, y float64) {
	return t.X + t.VX, t.Y + t.VY
}

// IsExpired reports whether the target has lived at least lifespan.
func IsExpired(t Target, now time.Time, lifespan time.Duration) bool {
	return now.Sub(t.CreatedAt) >= lifespan
}

// Age is the fraction of lifespan used, clamped to [0, 1].
func Age(t Target, now time.Time, lifespan time.Duration) float64 {
	if lifespan <= 0 {
		return 1
	}
	a := float64(now.Sub(t.CreatedAt)) / float64(lifespan)
	return math.Max(0, math.Min(1, a))
}

// VisualRadius is the shrinking radius used for drawing. Hit tests always
// use Radius.
func VisualRadius(t Target, now time.Time, lifespan time.Duration) float64 {
	return t.Radius * (1 - Age(t, now, lifespan))
}

// Contains reports whether (x, y) lies inside or on the target's edge.
func (t Target) Contains(x, y float64) bool {
	return math.Hypot(x-t.X, y-t.Y) <= t.Radius
}
