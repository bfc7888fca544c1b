// Package spawner decides once per frame whether a new target appears and
// where.
package spawner

import (
	"math"
	"math/rand/v2"
	"time"

	"aimtrainer/internal/options"
	"aimtrainer/internal/targets"
	"aimtrainer/internal/utility"
)

type Scheduler struct {
	rng       *rand.Rand
	lastSpawn time.Time
}

func New(rng *rand.Rand) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Scheduler{rng: rng}
}

// Reset restarts the spawn interval from now.
func (s *Scheduler) Reset(now time.Time) {
	s.lastSpawn = now
}

// Tick produces one target when more than the spawn interval has passed
// since the previous spawn. The returned target has no ID yet.
func (s *Scheduler) Tick(now time.Time, width, height float64, opts options.Options) (targets.Target, bool) {
	if now.Sub(s.lastSpawn) <= opts.SpawnInterval() {
		return targets.Target{}, false
	}
	s.lastSpawn = now
	return s.Spawn(now, width, height, opts), true
}

// Spawn samples a target uniformly inside [r, w-r] x [r, h-r]. A surface
// narrower than the target centers it on that axis.
func (s *Scheduler) Spawn(now time.Time, width, height float64, opts options.Options) targets.Target {
	r := opts.TargetSize
	t := targets.Target{
		X:         s.sample(width, r),
		Y:         s.sample(height, r),
		Radius:    r,
		Color:     utility.AccentColor(s.rng),
		CreatedAt: now,
	}
	if opts.Moving() {
		angle := s.rng.Float64() * 2 * math.Pi
		t.VX = math.Cos(angle) * opts.TargetSpeed
		t.VY = math.Sin(angle) * opts.TargetSpeed
	}
	return t
}

func (s *Scheduler) sample(extent, r float64) float64 {
	span := extent - 2*r
	if span <= 0 {
		return extent / 2
	}
	return s.rng.Float64()*span + r
}
