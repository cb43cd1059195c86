package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/vignette/config"
	"github.com/milk9111/vignette/logging"
)

func main() {
	settings, err := config.Load(".", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.New(settings.LogLevel, settings.Debug)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(settings.Window.Width, settings.Window.Height)
	ebiten.SetWindowTitle(settings.Window.Title)

	game, err := NewGame(settings, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("start")
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Error().Err(err).Msg("run")
	}
}
