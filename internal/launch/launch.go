// Package launch turns command-line flags into drill options for the local
// front-ends.
package launch

import (
	"flag"
	"fmt"

	"aimtrainer/internal/config"
	"aimtrainer/internal/options"
	"aimtrainer/internal/scenarios"
)

type Flags struct {
	TargetSize float64
	SpawnRate  int
	Lifespan   int
	Duration   int
	Moving     bool
	Speed      float64

	Category string
	Seed     int
	Index    int
	Mute     bool
}

// Register binds the flags on fs with defaults taken from cfg.
func Register(fs *flag.FlagSet, cfg config.Config) *Flags {
	d := cfg.SessionDefaults()
	f := &Flags{}
	fs.Float64Var(&f.TargetSize, "size", d.TargetSize, "target radius in px")
	fs.IntVar(&f.SpawnRate, "spawn", d.SpawnRate, "ms between spawns")
	fs.IntVar(&f.Lifespan, "lifespan", d.Lifespan, "target lifespan in ms")
	fs.IntVar(&f.Duration, "duration", d.Duration, "session length in seconds")
	fs.BoolVar(&f.Moving, "moving", d.MovingTargets, "targets move and bounce")
	fs.Float64Var(&f.Speed, "speed", 2, "target speed in px per frame")
	fs.StringVar(&f.Category, "category", "", "play a generated drill from this category instead")
	fs.IntVar(&f.Seed, "seed", 0, "generated drill seed")
	fs.IntVar(&f.Index, "drill", 0, "generated drill index on the page (0-11)")
	fs.BoolVar(&f.Mute, "mute", false, "disable audio cues")
	return f
}

// Options resolves the flags. A category selects a generated drill and
// overrides the individual settings.
func (f *Flags) Options() (options.Options, error) {
	if f.Category != "" {
		c, err := scenarios.ParseCategory(f.Category)
		if err != nil {
			return options.Options{}, err
		}
		if f.Index < 0 || f.Index >= scenarios.PerPage {
			return options.Options{}, fmt.Errorf("drill index %d outside 0-%d", f.Index, scenarios.PerPage-1)
		}
		return scenarios.Generate(f.Seed, c)[f.Index].Options.Normalize(), nil
	}
	o := options.Options{
		TargetSize:    f.TargetSize,
		SpawnRate:     f.SpawnRate,
		Lifespan:      f.Lifespan,
		Duration:      f.Duration,
		MovingTargets: f.Moving,
		TargetSpeed:   f.Speed,
	}
	return o.Normalize(), nil
}
