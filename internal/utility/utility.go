package utility

import (
	"fmt"
	"math/rand/v2"
)

// Accent palette used for targets.
var Palette = []string{"#ff4655", "#ece8e1", "#00b5d8"}

// AccentColor picks a palette color using rng, or the global source when rng is nil.
func AccentColor(rng *rand.Rand) string {
	if rng == nil {
		return Palette[rand.IntN(len(Palette))]
	}
	return Palette[rng.IntN(len(Palette))]
}

// ParseHex decodes a #rrggbb color.
func ParseHex(s string) (r, g, b uint8, err error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, fmt.Errorf("parsing hex color %q: %w", s, err)
	}
	return r, g, b, nil
}
