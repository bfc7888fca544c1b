package analytics

type BadgeID string

const (
	BadgeSharpshooter  BadgeID = "sharpshooter"
	BadgeSpeedDemon    BadgeID = "speed_demon"
	BadgeCenturion     BadgeID = "centurion"
	BadgeTriggerHappy  BadgeID = "trigger_happy"
	BadgePerfectionist BadgeID = "perfectionist"
	BadgeCleanSweep    BadgeID = "clean_sweep"
)

type Badge struct {
	ID          BadgeID `json:"id" msgpack:"id"`
	Name        string  `json:"name" msgpack:"name"`
	Description string  `json:"description" msgpack:"description"`
	Icon        string  `json:"icon" msgpack:"icon"`
}

var AllBadges = map[BadgeID]Badge{
	BadgeSharpshooter:  {ID: BadgeSharpshooter, Name: "Sharpshooter", Description: "90%+ accuracy over 20+ clicks", Icon: "🎯"},
	BadgeSpeedDemon:    {ID: BadgeSpeedDemon, Name: "Speed Demon", Description: "Average reaction time under 300ms", Icon: "⚡"},
	BadgeCenturion:     {ID: BadgeCenturion, Name: "Centurion", Description: "100+ hits in a single session", Icon: "💯"},
	BadgeTriggerHappy:  {ID: BadgeTriggerHappy, Name: "Trigger Happy", Description: "3+ clicks per second average", Icon: "🖱️"},
	BadgePerfectionist: {ID: BadgePerfectionist, Name: "Perfectionist", Description: "10+ hits without a single miss", Icon: "✨"},
	BadgeCleanSweep:    {ID: BadgeCleanSweep, Name: "Clean Sweep", Description: "No target expired out of 10+ spawned", Icon: "🧹"},
}

// EvaluateBadges checks which badges a finished run earned.
func EvaluateBadges(stats Stats) []Badge {
	var earned []Badge
	clicks := stats.Hits + stats.Misses

	if clicks >= 20 && stats.Accuracy >= 0.9 {
		earned = append(earned, AllBadges[BadgeSharpshooter])
	}

	if stats.Hits > 0 && stats.AvgReactionMs > 0 && stats.AvgReactionMs < 300 {
		earned = append(earned, AllBadges[BadgeSpeedDemon])
	}

	if stats.Hits >= 100 {
		earned = append(earned, AllBadges[BadgeCenturion])
	}

	if stats.CPS >= 3.0 {
		earned = append(earned, AllBadges[BadgeTriggerHappy])
	}

	if stats.Hits >= 10 && stats.Misses == 0 {
		earned = append(earned, AllBadges[BadgePerfectionist])
	}

	if stats.TargetsSpawned >= 10 && stats.TargetsExpired == 0 {
		earned = append(earned, AllBadges[BadgeCleanSweep])
	}

	return earned
}
