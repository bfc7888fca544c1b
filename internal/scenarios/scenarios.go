// Package scenarios generates graded drills from a seed and category.
package scenarios

import (
	"fmt"
	"strings"

	"aimtrainer/internal/options"
)

type Category string

const (
	CategoryPrecision = Category("Precision")
	CategorySpeed     = Category("Speed")
	CategoryTracking  = Category("Tracking")
	CategoryReaction  = Category("Reaction")
	CategoryFlick     = Category("Flick")
)

var Categories = []Category{CategoryPrecision, CategorySpeed, CategoryTracking, CategoryReaction, CategoryFlick}

var categoryBlurbs = map[Category]string{
	CategoryPrecision: "Small targets, high accuracy required.",
	CategorySpeed:     "Fast spawns, rapid target switching.",
	CategoryTracking:  "Moving targets that require constant focus.",
	CategoryReaction:  "Targets appear and disappear instantly.",
	CategoryFlick:     "Wide angle target switching.",
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func (c Category) Blurb() string {
	return categoryBlurbs[c]
}

type Kind string

const (
	KindRetake  = Kind("Retake")
	KindEntry   = Kind("Entry")
	KindHold    = Kind("Hold")
	KindExecute = Kind("Execute")
)

var kinds = []Kind{KindRetake, KindEntry, KindHold, KindExecute}

var sectors = []string{"A", "B", "C", "Mid"}

type Scenario struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Category   Category        `json:"category"`
	Difficulty int             `json:"difficulty"`
	Kind       Kind            `json:"kind"`
	Objective  string          `json:"objective"`
	Options    options.Options `json:"options"`
}

// PerPage is how many drills one seed produces.
const PerPage = 12

// Generate returns PerPage drills of rising difficulty for seed.
func Generate(seed int, category Category) []Scenario {
	out := make([]Scenario, 0, PerPage)
	for i := 0; i < PerPage; i++ {
		out = append(out, Build(seed+i, i, category))
	}
	return out
}

// Build derives the i-th drill of a page from its level seed.
func Build(levelSeed, i int, category Category) Scenario {
	difficulty := min(100, (i+1)*8+mod(levelSeed, 20))
	kind := kinds[mod(levelSeed, len(kinds))]
	sector := sectors[mod(levelSeed, len(sectors))]
	d := float64(difficulty)

	opts := options.Options{
		TargetSize:    max(8, 25-d/6),
		SpawnRate:     max(150, 1200-difficulty*10),
		Lifespan:      max(300, 2500-difficulty*20),
		Duration:      45,
		MovingTargets: difficulty > 40,
		TargetSpeed:   d/25 + 0.5,
		Name:          fmt.Sprintf("Sector %s: %s Alpha", sector, kind),
		Category:      string(category),
	}

	return Scenario{
		ID:         fmt.Sprintf("gen-%d", levelSeed),
		Name:       opts.Name,
		Category:   category,
		Difficulty: difficulty,
		Kind:       kind,
		Objective:  fmt.Sprintf("%s the %s sector against AI defenders.", kind, sector),
		Options:    opts,
	}
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
