package utility

import (
	"math/rand/v2"
	"regexp"
	"testing"
)

func TestAccentColor(t *testing.T) {
	hexPattern := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 100; i++ {
		color := AccentColor(rng)
		if !hexPattern.MatchString(color) {
			t.Errorf("AccentColor() = %q, want matching #rrggbb pattern", color)
		}
	}
}

func TestAccentColor_NilSource(t *testing.T) {
	color := AccentColor(nil)
	found := false
	for _, p := range Palette {
		if p == color {
			found = true
		}
	}
	if !found {
		t.Errorf("AccentColor(nil) = %q, not in palette", color)
	}
}

func TestParseHex(t *testing.T) {
	r, g, b, err := ParseHex("#ff4655")
	if err != nil {
		t.Fatal(err)
	}
	if r != 0xff || g != 0x46 || b != 0x55 {
		t.Errorf("ParseHex() = (%d, %d, %d), want (255, 70, 85)", r, g, b)
	}
}

func TestParseHex_Invalid(t *testing.T) {
	for _, s := range []string{"", "ff4655", "#ff46", "#zzzzzz"} {
		if _, _, _, err := ParseHex(s); err == nil {
			t.Errorf("ParseHex(%q) should fail", s)
		}
	}
}
