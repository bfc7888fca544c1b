package main

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"aimtrainer/internal/analytics"
	"aimtrainer/internal/cues"
	"aimtrainer/internal/options"
	"aimtrainer/internal/session"
	"aimtrainer/internal/utility"
)

var (
	background = color.RGBA{R: 15, G: 25, B: 35, A: 255}
	ringColor  = color.RGBA{R: 236, G: 232, B: 225, A: 60}
	hudColor   = color.RGBA{R: 0, G: 0, B: 0, A: 140}
)

// Game hosts a Session on ebiten's update loop. Update runs at a fixed TPS,
// so each call is one simulation frame.
type Game struct {
	driver *session.Driver
	cues   cues.Player
	colors map[string]color.RGBA

	width, height int
	summary       []string
	copiedAt      time.Time
}

func NewGame(opts options.Options, player cues.Player) *Game {
	g := &Game{
		driver: session.NewDriver(session.New(opts, nil)),
		cues:   player,
		colors: make(map[string]color.RGBA),
		width:  screenWidth,
		height: screenHeight,
	}
	g.driver.Session.OnComplete = g.complete
	return g
}

func (g *Game) complete(score int) {
	res := g.driver.Session.Result()
	stats := analytics.FromResult(res)
	g.summary = analytics.Summary(res.Options.Name, stats, analytics.EvaluateBadges(stats))
	g.cues.Play(cues.CueEnd)
	log.Info("run complete", "score", score, "hits", res.Hits, "misses", res.Misses)
}

func (g *Game) Update() error {
	now := time.Now()
	s := g.driver.Session

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if s.Phase() != session.PhaseRunning &&
		(inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter)) {
		if err := g.driver.Start(now); err == nil {
			g.summary = nil
		}
	}
	if s.Phase() == session.PhaseEnded && inpututil.IsKeyJustPressed(ebiten.KeyC) && len(g.summary) > 0 {
		if err := clipboard.WriteAll(strings.Join(g.summary, "\n")); err != nil {
			log.Warn("clipboard unavailable", "err", err)
		} else {
			g.copiedAt = now
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		out := g.driver.Click(now, float64(x), float64(y))
		if out.Accepted {
			if out.Hit {
				g.cues.Play(cues.CueHit)
			} else {
				g.cues.Play(cues.CueMiss)
			}
		}
	}

	g.driver.Frame(now, float64(g.width), float64(g.height))
	return nil
}

func (g *Game) color(hex string) color.RGBA {
	if c, ok := g.colors[hex]; ok {
		return c
	}
	c := color.RGBA{R: 255, G: 70, B: 85, A: 255}
	if r, gr, b, err := utility.ParseHex(hex); err == nil {
		c = color.RGBA{R: r, G: gr, B: b, A: 255}
	}
	g.colors[hex] = c
	return c
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	snap := g.driver.Session.Snapshot(time.Now())

	for _, t := range snap.Targets {
		x, y := float32(t.X), float32(t.Y)
		vector.StrokeCircle(screen, x, y, float32(t.Radius), 1, ringColor, true)
		vector.FillCircle(screen, x, y, float32(t.VisualRadius), g.color(t.Color), true)
	}

	vector.FillRect(screen, 0, 0, float32(g.width), 20, hudColor, false)
	hud := fmt.Sprintf("SCORE %d   TIME %ds   HITS %d   MISSES %d   ACC %d%%",
		snap.Score, snap.TimeRemaining, snap.Hits, snap.Misses, snap.Accuracy)
	if snap.Name != "" {
		hud += "   " + snap.Name
	}
	ebitenutil.DebugPrintAt(screen, hud, 8, 2)

	switch snap.Phase {
	case session.PhaseIdle:
		g.drawCentered(screen, []string{"SPACE to start", "ESC to quit"})
	case session.PhaseEnded:
		lines := append([]string{}, g.summary...)
		lines = append(lines, "", "SPACE to play again   C to copy results")
		if !g.copiedAt.IsZero() && time.Since(g.copiedAt) < 2*time.Second {
			lines = append(lines, "copied")
		}
		g.drawCentered(screen, lines)
	}
}

// drawCentered prints lines in the debug font (6x16 px per glyph) around
// the middle of the surface.
func (g *Game) drawCentered(screen *ebiten.Image, lines []string) {
	const glyphW, lineH = 6, 16
	y := g.height/2 - len(lines)*lineH/2
	for _, line := range lines {
		x := g.width/2 - len(line)*glyphW/2
		ebitenutil.DebugPrintAt(screen, line, x, y)
		y += lineH
	}
}

// Layout follows the window so the play surface is always the visible area.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
	}
	return g.width, g.height
}
