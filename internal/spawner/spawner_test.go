package spawner

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"aimtrainer/internal/options"
)

func newTestScheduler() *Scheduler {
	return New(rand.New(rand.NewPCG(7, 11)))
}

func TestTick_WaitsForInterval(t *testing.T) {
	s := newTestScheduler()
	t0 := time.Unix(1000, 0)
	s.Reset(t0)
	opts := options.Defaults()

	if _, ok := s.Tick(t0.Add(800*time.Millisecond), 1200, 675, opts); ok {
		t.Error("spawned at exactly the interval, want strictly greater")
	}
	tg, ok := s.Tick(t0.Add(801*time.Millisecond), 1200, 675, opts)
	if !ok {
		t.Fatal("no spawn after interval elapsed")
	}
	if !tg.CreatedAt.Equal(t0.Add(801 * time.Millisecond)) {
		t.Errorf("CreatedAt = %v, want spawn time", tg.CreatedAt)
	}
	if _, ok := s.Tick(t0.Add(900*time.Millisecond), 1200, 675, opts); ok {
		t.Error("spawned twice within one interval")
	}
	// the interval restarts from the spawn, not from Reset
	if _, ok := s.Tick(t0.Add(1601*time.Millisecond), 1200, 675, opts); ok {
		t.Error("spawned at exactly one interval after the previous spawn")
	}
	if _, ok := s.Tick(t0.Add(1602*time.Millisecond), 1200, 675, opts); !ok {
		t.Error("no spawn one interval after the previous spawn")
	}
}

func TestSpawn_WithinBounds(t *testing.T) {
	s := newTestScheduler()
	opts := options.Defaults()
	opts.TargetSize = 30
	now := time.Now()

	for i := 0; i < 500; i++ {
		tg := s.Spawn(now, 300, 200, opts)
		if tg.X < 30 || tg.X > 270 {
			t.Fatalf("X = %v outside [30, 270]", tg.X)
		}
		if tg.Y < 30 || tg.Y > 170 {
			t.Fatalf("Y = %v outside [30, 170]", tg.Y)
		}
		if tg.Radius != 30 {
			t.Fatalf("Radius = %v, want 30", tg.Radius)
		}
		if tg.Color == "" {
			t.Fatal("Color should not be empty")
		}
	}
}

func TestSpawn_Stationary(t *testing.T) {
	s := newTestScheduler()
	tg := s.Spawn(time.Now(), 1200, 675, options.Defaults())
	if tg.VX != 0 || tg.VY != 0 {
		t.Errorf("velocity = (%v, %v), want zero", tg.VX, tg.VY)
	}
}

func TestSpawn_MovingHasConfiguredSpeed(t *testing.T) {
	s := newTestScheduler()
	opts := options.Defaults()
	opts.MovingTargets = true
	opts.TargetSpeed = 4

	for i := 0; i < 50; i++ {
		tg := s.Spawn(time.Now(), 1200, 675, opts)
		speed := math.Hypot(tg.VX, tg.VY)
		if math.Abs(speed-4) > 1e-9 {
			t.Fatalf("speed = %v, want 4", speed)
		}
	}
}

func TestSpawn_TinySurfaceCenters(t *testing.T) {
	s := newTestScheduler()
	opts := options.Defaults()
	opts.TargetSize = 50
	tg := s.Spawn(time.Now(), 60, 400, opts)
	if tg.X != 30 {
		t.Errorf("X = %v, want 30 (centered)", tg.X)
	}
}
