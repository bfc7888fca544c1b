package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"aimtrainer/internal/config"
	"aimtrainer/internal/cues"
	"aimtrainer/internal/launch"
)

const (
	screenWidth  = 1200
	screenHeight = 675
)

func main() {
	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)

	flags := launch.Register(flag.CommandLine, cfg)
	flag.Parse()
	opts, err := flags.Options()
	if err != nil {
		log.Error("invalid options", "err", err)
		os.Exit(2)
	}

	var player cues.Player = cues.Silent{}
	if !flags.Mute {
		p, closeAudio := cues.Open()
		defer closeAudio()
		player = p
	}

	ebiten.SetWindowTitle("Aim Trainer")
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.FrameHz)

	if err := ebiten.RunGame(NewGame(opts, player)); err != nil && err != ebiten.Termination {
		log.Fatal("game stopped", "err", err)
	}
}
