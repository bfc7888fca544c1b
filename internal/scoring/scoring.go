// Package scoring keeps the score, hit and miss counters and the session
// countdown.
package scoring

import "math"

const (
	HitReward   = 100
	MissPenalty = 25
)

type Scorer struct {
	Score  int
	Hits   int
	Misses int
}

func (s *Scorer) Hit() {
	s.Hits++
	s.Score += HitReward
}

// Miss applies the penalty; the score never drops below zero.
func (s *Scorer) Miss() {
	s.Misses++
	s.Score = max(0, s.Score-MissPenalty)
}

func (s *Scorer) Reset() {
	*s = Scorer{}
}

// Accuracy is hits / (hits + misses), or 0 before the first click.
func (s Scorer) Accuracy() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// AccuracyPercent rounds Accuracy to a whole percentage.
func (s Scorer) AccuracyPercent() int {
	return int(math.Round(s.Accuracy() * 100))
}

// Clock counts whole seconds down from a session's duration.
type Clock struct {
	Remaining int
}

func (c *Clock) Reset(durationSec int) {
	c.Remaining = durationSec
}

// Tick takes one second off and reports whether the clock has run out.
// Remaining never goes below zero.
func (c *Clock) Tick() bool {
	if c.Remaining > 0 {
		c.Remaining--
	}
	return c.Remaining == 0
}
