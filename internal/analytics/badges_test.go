package analytics

import (
	"testing"
	"time"

	"aimtrainer/internal/options"
	"aimtrainer/internal/session"
)

func hasBadge(badges []Badge, id BadgeID) bool {
	for _, b := range badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

func TestEvaluateBadges_Sharpshooter(t *testing.T) {
	badges := EvaluateBadges(Stats{Hits: 18, Misses: 2, Accuracy: 0.9})
	if !hasBadge(badges, BadgeSharpshooter) {
		t.Error("should earn Sharpshooter with 90% over 20 clicks")
	}
}

func TestEvaluateBadges_NoSharpshooterTooFewClicks(t *testing.T) {
	badges := EvaluateBadges(Stats{Hits: 10, Misses: 0, Accuracy: 1})
	if hasBadge(badges, BadgeSharpshooter) {
		t.Error("should not earn Sharpshooter with 10 clicks")
	}
}

func TestEvaluateBadges_SpeedDemon(t *testing.T) {
	if !hasBadge(EvaluateBadges(Stats{Hits: 5, AvgReactionMs: 250}), BadgeSpeedDemon) {
		t.Error("should earn Speed Demon with 250ms avg reaction")
	}
	if hasBadge(EvaluateBadges(Stats{Hits: 5, AvgReactionMs: 350}), BadgeSpeedDemon) {
		t.Error("should not earn Speed Demon with 350ms avg reaction")
	}
}

func TestEvaluateBadges_Centurion(t *testing.T) {
	if !hasBadge(EvaluateBadges(Stats{Hits: 100}), BadgeCenturion) {
		t.Error("should earn Centurion with 100 hits")
	}
	if hasBadge(EvaluateBadges(Stats{Hits: 99}), BadgeCenturion) {
		t.Error("should not earn Centurion with 99 hits")
	}
}

func TestEvaluateBadges_TriggerHappy(t *testing.T) {
	if !hasBadge(EvaluateBadges(Stats{CPS: 3.5}), BadgeTriggerHappy) {
		t.Error("should earn Trigger Happy with 3.5 CPS")
	}
}

func TestEvaluateBadges_Perfectionist(t *testing.T) {
	if !hasBadge(EvaluateBadges(Stats{Hits: 10}), BadgePerfectionist) {
		t.Error("should earn Perfectionist with 10 hits and no misses")
	}
	if hasBadge(EvaluateBadges(Stats{Hits: 10, Misses: 1}), BadgePerfectionist) {
		t.Error("should not earn Perfectionist with a miss")
	}
}

func TestEvaluateBadges_CleanSweep(t *testing.T) {
	if !hasBadge(EvaluateBadges(Stats{TargetsSpawned: 12}), BadgeCleanSweep) {
		t.Error("should earn Clean Sweep with no expiries")
	}
	if hasBadge(EvaluateBadges(Stats{TargetsSpawned: 12, TargetsExpired: 1}), BadgeCleanSweep) {
		t.Error("should not earn Clean Sweep with an expiry")
	}
}

func TestEvaluateBadges_Empty(t *testing.T) {
	if badges := EvaluateBadges(Stats{}); len(badges) != 0 {
		t.Errorf("empty stats earned %d badges", len(badges))
	}
}

func TestFromResult_CPS(t *testing.T) {
	start := time.Unix(1000, 0)
	r := session.Result{
		Hits:      40,
		Misses:    20,
		StartedAt: start,
		EndedAt:   start.Add(30 * time.Second),
		Options:   options.Defaults(),
	}
	stats := FromResult(r)
	if stats.CPS != 2 {
		t.Errorf("CPS = %v, want 2", stats.CPS)
	}
}

func TestFromResult_FallsBackToDuration(t *testing.T) {
	r := session.Result{Hits: 90, Options: options.Defaults()}
	if stats := FromResult(r); stats.CPS != 3 {
		t.Errorf("CPS = %v, want 3", stats.CPS)
	}
}

func TestSummary(t *testing.T) {
	stats := Stats{Score: 1200, Hits: 12, Misses: 0, Accuracy: 1, AvgReactionMs: 280, BestReactionMs: 190, TargetsSpawned: 12}
	lines := Summary("Sector A: Retake Alpha", stats, EvaluateBadges(stats))

	want := []string{
		"Sector A: Retake Alpha: 1200 pts",
		"Hits 12  Misses 0  Accuracy 100%",
		"Reaction avg 280ms  best 190ms",
		"Targets 12 spawned, 0 expired",
		"Badges: Speed Demon, Perfectionist, Clean Sweep",
	}
	if len(lines) != len(want) {
		t.Fatalf("Summary() = %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestSummary_NoHits(t *testing.T) {
	lines := Summary("", Stats{Misses: 3}, nil)
	if lines[0] != "Free play: 0 pts" {
		t.Errorf("first line = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Errorf("Summary() = %q, want 3 lines", lines)
	}
}
