package analytics

import (
	"fmt"
	"strings"
)

// Summary renders a finished run as plain text lines, for the end screen and
// the clipboard.
func Summary(name string, s Stats, badges []Badge) []string {
	if name == "" {
		name = "Free play"
	}
	lines := []string{
		fmt.Sprintf("%s: %d pts", name, s.Score),
		fmt.Sprintf("Hits %d  Misses %d  Accuracy %.0f%%", s.Hits, s.Misses, s.Accuracy*100),
	}
	if s.Hits > 0 {
		lines = append(lines, fmt.Sprintf("Reaction avg %dms  best %dms", s.AvgReactionMs, s.BestReactionMs))
	}
	lines = append(lines, fmt.Sprintf("Targets %d spawned, %d expired", s.TargetsSpawned, s.TargetsExpired))
	if len(badges) > 0 {
		names := make([]string, 0, len(badges))
		for _, b := range badges {
			names = append(names, b.Name)
		}
		lines = append(lines, "Badges: "+strings.Join(names, ", "))
	}
	return lines
}
