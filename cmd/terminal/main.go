package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"aimtrainer/internal/analytics"
	"aimtrainer/internal/config"
	"aimtrainer/internal/cues"
	"aimtrainer/internal/launch"
	"aimtrainer/internal/options"
	"aimtrainer/internal/session"
	"aimtrainer/internal/utility"
)

type Game struct {
	screen  tcell.Screen
	driver  *session.Driver
	cues    cues.Player
	cols    int
	rows    int
	pressed bool
	summary []string
}

func NewGame(screen tcell.Screen, opts options.Options, player cues.Player) *Game {
	g := &Game{
		screen: screen,
		driver: session.NewDriver(session.New(opts, nil)),
		cues:   player,
	}
	g.cols, g.rows = screen.Size()
	g.driver.Session.OnComplete = func(int) {
		res := g.driver.Session.Result()
		stats := analytics.FromResult(res)
		g.summary = analytics.Summary(res.Options.Name, stats, analytics.EvaluateBadges(stats))
		g.cues.Play(cues.CueEnd)
	}
	return g
}

// handleInput reports false when the user quits.
func (g *Game) handleInput(ev tcell.Event) bool {
	now := time.Now()
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		if ev.Key() == tcell.KeyEnter || (ev.Key() == tcell.KeyRune && ev.Rune() == ' ') {
			if g.driver.Session.Phase() != session.PhaseRunning {
				if err := g.driver.Start(now); err == nil {
					g.summary = nil
				}
			}
		}
	case *tcell.EventMouse:
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !g.pressed {
			col, row := ev.Position()
			if x, y, ok := cellToSurface(col, row); ok {
				out := g.driver.Click(now, x, y)
				if out.Accepted {
					if out.Hit {
						g.cues.Play(cues.CueHit)
					} else {
						g.cues.Play(cues.CueMiss)
					}
				}
			}
		}
		g.pressed = down
	case *tcell.EventResize:
		g.cols, g.rows = g.screen.Size()
		g.screen.Sync()
	}
	return true
}

func (g *Game) draw() {
	g.screen.Clear()
	snap := g.driver.Session.Snapshot(time.Now())

	ring := tcell.StyleDefault.Foreground(tcell.NewRGBColor(80, 80, 90))
	for _, t := range snap.Targets {
		coveredCells(t.X, t.Y, t.Radius, g.cols, g.rows, func(col, row int) {
			g.screen.SetContent(col, row, '·', nil, ring)
		})
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		if r, gr, b, err := utility.ParseHex(t.Color); err == nil {
			style = tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(gr), int32(b)))
		}
		coveredCells(t.X, t.Y, t.VisualRadius, g.cols, g.rows, func(col, row int) {
			g.screen.SetContent(col, row, '█', nil, style)
		})
	}

	hud := fmt.Sprintf(" SCORE %d  TIME %ds  HITS %d  MISSES %d  ACC %d%% ",
		snap.Score, snap.TimeRemaining, snap.Hits, snap.Misses, snap.Accuracy)
	g.print(0, 0, hud, tcell.StyleDefault.Reverse(true))

	switch snap.Phase {
	case session.PhaseIdle:
		g.printCentered([]string{"SPACE to start", "click targets, q to quit"})
	case session.PhaseEnded:
		g.printCentered(append(append([]string{}, g.summary...), "", "SPACE to play again"))
	}
	g.screen.Show()
}

func (g *Game) print(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= g.cols {
			return
		}
		g.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (g *Game) printCentered(lines []string) {
	y := g.rows/2 - len(lines)/2
	for _, line := range lines {
		g.print(max(0, g.cols/2-len([]rune(line))/2), y, line, tcell.StyleDefault.Bold(true))
		y++
	}
}

func (g *Game) run(frameHz int) {
	ticker := time.NewTicker(time.Second / time.Duration(frameHz))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !g.handleInput(ev) {
				return
			}
		case now := <-ticker.C:
			w, h := surfaceSize(g.cols, g.rows)
			g.driver.Frame(now, w, h)
			g.draw()
		}
	}
}

func main() {
	cfg := config.Load()
	flags := launch.Register(flag.CommandLine, cfg)
	flag.Parse()
	opts, err := flags.Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid options: %v\n", err)
		os.Exit(2)
	}

	// the screen owns stdout; keep logs off it
	log.SetOutput(os.Stderr)
	log.SetLevel(log.ErrorLevel)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.HideCursor()

	var player cues.Player = cues.Silent{}
	closeAudio := func() {}
	if !flags.Mute {
		player, closeAudio = cues.Open()
	}

	game := NewGame(screen, opts, player)
	game.run(cfg.FrameHz)

	closeAudio()
	screen.Fini()
	if len(game.summary) > 0 {
		for _, line := range game.summary {
			fmt.Println(line)
		}
	}
}
