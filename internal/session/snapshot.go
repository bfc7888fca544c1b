package session

import (
	"time"

	"aimtrainer/internal/options"
	"aimtrainer/internal/targets"
)

// TargetView is what a renderer needs to draw one target.
type TargetView struct {
	ID           int     `json:"id" msgpack:"id"`
	X            float64 `json:"x" msgpack:"x"`
	Y            float64 `json:"y" msgpack:"y"`
	Radius       float64 `json:"r" msgpack:"r"`
	VisualRadius float64 `json:"vr" msgpack:"vr"`
	Age          float64 `json:"age" msgpack:"age"`
	Color        string  `json:"c" msgpack:"c"`
}

type Snapshot struct {
	Phase         Phase        `json:"phase" msgpack:"phase"`
	Score         int          `json:"score" msgpack:"score"`
	Hits          int          `json:"hits" msgpack:"hits"`
	Misses        int          `json:"misses" msgpack:"misses"`
	Accuracy      int          `json:"accuracy" msgpack:"accuracy"` // percent
	TimeRemaining int          `json:"timeLeft" msgpack:"timeLeft"`
	Name          string       `json:"name,omitempty" msgpack:"name,omitempty"`
	Category      string       `json:"category,omitempty" msgpack:"category,omitempty"`
	Targets       []TargetView `json:"targets" msgpack:"targets"`
}

func (s *Session) Snapshot(now time.Time) Snapshot {
	lifespan := s.opts.LifespanDuration()
	list := s.targets.List()
	views := make([]TargetView, 0, len(list))
	for _, t := range list {
		views = append(views, TargetView{
			ID:           t.ID,
			X:            t.X,
			Y:            t.Y,
			Radius:       t.Radius,
			VisualRadius: targets.VisualRadius(t, now, lifespan),
			Age:          targets.Age(t, now, lifespan),
			Color:        t.Color,
		})
	}
	return Snapshot{
		Phase:         s.phase,
		Score:         s.scorer.Score,
		Hits:          s.scorer.Hits,
		Misses:        s.scorer.Misses,
		Accuracy:      s.scorer.AccuracyPercent(),
		TimeRemaining: s.clock.Remaining,
		Name:          s.opts.Name,
		Category:      s.opts.Category,
		Targets:       views,
	}
}

// Result summarises the most recent run.
type Result struct {
	RunID          string          `json:"runId" msgpack:"runId"`
	Score          int             `json:"score" msgpack:"score"`
	Hits           int             `json:"hits" msgpack:"hits"`
	Misses         int             `json:"misses" msgpack:"misses"`
	Accuracy       float64         `json:"accuracy" msgpack:"accuracy"`
	TargetsSpawned int             `json:"targetsSpawned" msgpack:"targetsSpawned"`
	TargetsExpired int             `json:"targetsExpired" msgpack:"targetsExpired"`
	AvgReactionMs  int             `json:"avgReactionMs" msgpack:"avgReactionMs"`
	BestReactionMs int             `json:"bestReactionMs" msgpack:"bestReactionMs"`
	StartedAt      time.Time       `json:"startedAt" msgpack:"startedAt"`
	EndedAt        time.Time       `json:"endedAt" msgpack:"endedAt"`
	Options        options.Options `json:"options" msgpack:"options"`
}

func (s *Session) Result() Result {
	avg := 0
	if s.scorer.Hits > 0 {
		avg = int((s.reactionTotal / time.Duration(s.scorer.Hits)).Milliseconds())
	}
	return Result{
		RunID:          s.runID,
		Score:          s.scorer.Score,
		Hits:           s.scorer.Hits,
		Misses:         s.scorer.Misses,
		Accuracy:       s.scorer.Accuracy(),
		TargetsSpawned: s.spawned,
		TargetsExpired: s.expired,
		AvgReactionMs:  avg,
		BestReactionMs: int(s.bestReaction.Milliseconds()),
		StartedAt:      s.startedAt,
		EndedAt:        s.endedAt,
		Options:        s.opts,
	}
}
