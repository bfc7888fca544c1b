// Package hits resolves a pointer click against the active targets.
package hits

import (
	"time"

	"aimtrainer/internal/targets"
)

// Resolve removes and returns the first live target whose spawn-time
// radius covers (cx, cy). At most one target is removed per click, however
// many overlap the point. Targets past their lifespan at now are pruned
// first and never match; expired reports how many were pruned.
func Resolve(set *targets.Set, cx, cy float64, now time.Time, lifespan time.Duration) (hit targets.Target, ok bool, expired int) {
	expired = set.RemoveIf(func(t targets.Target) bool {
		return targets.IsExpired(t, now, lifespan)
	})
	hit, ok = set.RemoveFirst(func(t targets.Target) bool {
		return t.Contains(cx, cy)
	})
	return hit, ok, expired
}
