package analytics

import (
	"time"

	"aimtrainer/internal/session"
)

// Stats is the per-run summary badges are judged on.
type Stats struct {
	Score          int
	Hits           int
	Misses         int
	Accuracy       float64 // 0..1
	AvgReactionMs  int
	BestReactionMs int
	CPS            float64 // clicks per second
	TargetsSpawned int
	TargetsExpired int
}

// FromResult derives badge stats from a finished run.
func FromResult(r session.Result) Stats {
	stats := Stats{
		Score:          r.Score,
		Hits:           r.Hits,
		Misses:         r.Misses,
		Accuracy:       r.Accuracy,
		AvgReactionMs:  r.AvgReactionMs,
		BestReactionMs: r.BestReactionMs,
		TargetsSpawned: r.TargetsSpawned,
		TargetsExpired: r.TargetsExpired,
	}
	duration := r.EndedAt.Sub(r.StartedAt)
	if r.EndedAt.IsZero() || duration <= 0 {
		duration = time.Duration(r.Options.Duration) * time.Second
	}
	if secs := duration.Seconds(); secs > 0 {
		stats.CPS = float64(r.Hits+r.Misses) / secs
	}
	return stats
}
