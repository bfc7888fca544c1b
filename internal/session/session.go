// Package session is the single-threaded core of a drill: it owns the active
// targets and counters and moves through Idle -> Running -> Ended. A Session
// is not safe for concurrent use; a host serializes frame ticks, clock ticks
// and clicks onto one goroutine.
package session

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"aimtrainer/internal/hits"
	"aimtrainer/internal/motion"
	"aimtrainer/internal/options"
	"aimtrainer/internal/scoring"
	"aimtrainer/internal/spawner"
	"aimtrainer/internal/targets"
)

type Phase string

const (
	PhaseIdle    = Phase("idle")
	PhaseRunning = Phase("running")
	PhaseEnded   = Phase("ended")
)

var ErrRunning = errors.New("session is running")

type Session struct {
	phase   Phase
	opts    options.Options
	targets *targets.Set
	spawner *spawner.Scheduler
	scorer  scoring.Scorer
	clock   scoring.Clock

	runID     string
	startedAt time.Time
	endedAt   time.Time
	spawned   int
	expired   int

	reactionTotal time.Duration
	bestReaction  time.Duration

	// OnComplete receives the final score once per run.
	OnComplete func(score int)
}

// New returns an Idle session. A nil rng seeds one from the runtime.
func New(opts options.Options, rng *rand.Rand) *Session {
	opts = opts.Normalize()
	s := &Session{
		phase:   PhaseIdle,
		opts:    opts,
		targets: targets.NewSet(),
		spawner: spawner.New(rng),
	}
	s.clock.Reset(opts.Duration)
	return s
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) Options() options.Options {
	return s.opts
}

// Configure swaps the options between runs. An Ended session keeps its
// final clock; the new duration applies from the next Start.
func (s *Session) Configure(opts options.Options) error {
	if s.phase == PhaseRunning {
		return ErrRunning
	}
	s.opts = opts.Normalize()
	if s.phase == PhaseIdle {
		s.clock.Reset(s.opts.Duration)
	}
	return nil
}

// Start begins a fresh run from Idle or Ended, clearing every counter and
// target before returning.
func (s *Session) Start(now time.Time) error {
	if s.phase == PhaseRunning {
		return ErrRunning
	}
	s.scorer.Reset()
	s.clock.Reset(s.opts.Duration)
	s.targets.Clear()
	s.spawner.Reset(now)
	s.runID = uuid.New().String()
	s.startedAt = now
	s.endedAt = time.Time{}
	s.spawned = 0
	s.expired = 0
	s.reactionTotal = 0
	s.bestReaction = 0
	s.phase = PhaseRunning
	return nil
}

// Frame is one simulation tick: maybe spawn, then expire and move. The
// surface size is whatever the renderer reports this frame.
func (s *Session) Frame(now time.Time, width, height float64) {
	if s.phase != PhaseRunning {
		return
	}
	if t, ok := s.spawner.Tick(now, width, height, s.opts); ok {
		s.targets.Add(t)
		s.spawned++
	}
	s.expired += motion.Step(s.targets, now, width, height, s.opts.LifespanDuration())
}

// Second is one countdown tick. It reports whether this tick ended the run.
func (s *Session) Second(now time.Time) bool {
	if s.phase != PhaseRunning {
		return false
	}
	if !s.clock.Tick() {
		return false
	}
	s.phase = PhaseEnded
	s.endedAt = now
	if s.OnComplete != nil {
		s.OnComplete(s.scorer.Score)
	}
	return true
}

// Outcome is the result of one click.
type Outcome struct {
	Accepted bool           `json:"accepted" msgpack:"accepted"`
	Hit      bool           `json:"hit" msgpack:"hit"`
	TargetID int            `json:"targetId,omitempty" msgpack:"targetId,omitempty"`
	Score    int            `json:"score" msgpack:"score"`
	Target   targets.Target `json:"-" msgpack:"-"`
}

// Click resolves a surface-local click. Outside Running it does nothing.
func (s *Session) Click(now time.Time, cx, cy float64) Outcome {
	if s.phase != PhaseRunning {
		return Outcome{Score: s.scorer.Score}
	}
	t, ok, expired := hits.Resolve(s.targets, cx, cy, now, s.opts.LifespanDuration())
	s.expired += expired
	if ok {
		s.scorer.Hit()
		rt := now.Sub(t.CreatedAt)
		s.reactionTotal += rt
		if s.bestReaction == 0 || rt < s.bestReaction {
			s.bestReaction = rt
		}
	} else {
		s.scorer.Miss()
	}
	return Outcome{
		Accepted: true,
		Hit:      ok,
		TargetID: t.ID,
		Score:    s.scorer.Score,
		Target:   t,
	}
}

func (s *Session) Score() int {
	return s.scorer.Score
}

func (s *Session) Hits() int {
	return s.scorer.Hits
}

func (s *Session) Misses() int {
	return s.scorer.Misses
}

func (s *Session) TimeRemaining() int {
	return s.clock.Remaining
}

// Accuracy is derived on demand and is 0 before the first click.
func (s *Session) Accuracy() float64 {
	return s.scorer.Accuracy()
}

func (s *Session) Targets() []targets.Target {
	return s.targets.List()
}

func (s *Session) RunID() string {
	return s.runID
}
