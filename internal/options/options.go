// Package options is the tunable surface of a drill: target size, spawn
// cadence, lifespan, session length and motion.
package options

import (
	"encoding/json"
	"fmt"
	"time"
)

type Options struct {
	TargetSize    float64 `json:"targetSize"`  // px
	SpawnRate     int     `json:"spawnRate"`   // ms between spawns
	Lifespan      int     `json:"lifespan"`    // ms
	Duration      int     `json:"duration"`    // seconds
	MovingTargets bool    `json:"movingTargets"`
	TargetSpeed   float64 `json:"targetSpeed"` // px per frame

	// Display only.
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
}

const (
	DefaultTargetSize = 20
	DefaultSpawnRate  = 800
	DefaultLifespan   = 2000
	DefaultDuration   = 30
)

func Defaults() Options {
	return Options{
		TargetSize:    DefaultTargetSize,
		SpawnRate:     DefaultSpawnRate,
		Lifespan:      DefaultLifespan,
		Duration:      DefaultDuration,
		MovingTargets: false,
		TargetSpeed:   0,
	}
}

// record mirrors Options with pointer fields so absent keys can be told
// apart from explicit zeros.
type record struct {
	TargetSize    *float64 `json:"targetSize"`
	SpawnRate     *int     `json:"spawnRate"`
	Lifespan      *int     `json:"lifespan"`
	Duration      *int     `json:"duration"`
	MovingTargets *bool    `json:"movingTargets"`
	TargetSpeed   *float64 `json:"targetSpeed"`
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
}

// Parse decodes an options record, filling absent fields from base, and
// normalizes the result.
func Parse(data []byte, base Options) (Options, error) {
	var rec record
	if len(data) > 0 {
		if err := json.Unmarshal(data, &rec); err != nil {
			return Options{}, fmt.Errorf("decoding options: %w", err)
		}
	}
	o := base
	if rec.TargetSize != nil {
		o.TargetSize = *rec.TargetSize
	}
	if rec.SpawnRate != nil {
		o.SpawnRate = *rec.SpawnRate
	}
	if rec.Lifespan != nil {
		o.Lifespan = *rec.Lifespan
	}
	if rec.Duration != nil {
		o.Duration = *rec.Duration
	}
	if rec.MovingTargets != nil {
		o.MovingTargets = *rec.MovingTargets
	}
	if rec.TargetSpeed != nil {
		o.TargetSpeed = *rec.TargetSpeed
	}
	if rec.Name != nil {
		o.Name = *rec.Name
	}
	if rec.Category != nil {
		o.Category = *rec.Category
	}
	return o.Normalize(), nil
}

// Normalize clamps every numeric option to its safe minimum. Values that
// would divide by zero or spawn every frame become 1.
func (o Options) Normalize() Options {
	if o.TargetSize < 1 {
		o.TargetSize = 1
	}
	if o.SpawnRate < 1 {
		o.SpawnRate = 1
	}
	if o.Lifespan < 1 {
		o.Lifespan = 1
	}
	if o.Duration < 1 {
		o.Duration = 1
	}
	if o.TargetSpeed < 0 {
		o.TargetSpeed = 0
	}
	return o
}

// Moving reports whether spawned targets get a velocity.
func (o Options) Moving() bool {
	return o.MovingTargets && o.TargetSpeed > 0
}

func (o Options) SpawnInterval() time.Duration {
	return time.Duration(o.SpawnRate) * time.Millisecond
}

func (o Options) LifespanDuration() time.Duration {
	return time.Duration(o.Lifespan) * time.Millisecond
}
