package options

import (
	"errors"
	"fmt"
)

// Bounds exposed by the settings panel. The engine itself only clamps to
// the minimums in Normalize; these are advisory for callers that accept
// user input.
const (
	MinTargetSize  = 5
	MaxTargetSize  = 50
	MinSpawnRate   = 100
	MaxSpawnRate   = 2000
	MinLifespan    = 300
	MaxLifespan    = 5000
	MinTargetSpeed = 1
	MaxTargetSpeed = 10
)

// Validate reports every option outside the settings panel ranges.
func (o Options) Validate() error {
	var errs []error
	if o.TargetSize < MinTargetSize || o.TargetSize > MaxTargetSize {
		errs = append(errs, fmt.Errorf("targetSize %.1f outside [%d, %d]", o.TargetSize, MinTargetSize, MaxTargetSize))
	}
	if o.SpawnRate < MinSpawnRate || o.SpawnRate > MaxSpawnRate {
		errs = append(errs, fmt.Errorf("spawnRate %d outside [%d, %d]", o.SpawnRate, MinSpawnRate, MaxSpawnRate))
	}
	if o.Lifespan < MinLifespan || o.Lifespan > MaxLifespan {
		errs = append(errs, fmt.Errorf("lifespan %d outside [%d, %d]", o.Lifespan, MinLifespan, MaxLifespan))
	}
	if o.Duration < 1 {
		errs = append(errs, fmt.Errorf("duration %d must be positive", o.Duration))
	}
	if o.MovingTargets && (o.TargetSpeed < MinTargetSpeed || o.TargetSpeed > MaxTargetSpeed) {
		errs = append(errs, fmt.Errorf("targetSpeed %.1f outside [%d, %d]", o.TargetSpeed, MinTargetSpeed, MaxTargetSpeed))
	}
	return errors.Join(errs...)
}
