package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/touchquad/app"
	"github.com/milk9111/touchquad/scene"
	"go.uber.org/zap"
)

func main() {
	scenePath := flag.String("scene", "", "scene file (defaults to the embedded scene.yaml)")
	watch := flag.Bool("watch", false, "reload the scene when it changes on disk")
	debug := flag.Bool("debug", false, "enable debug logging and overlay")
	width := flag.Int("width", 720, "initial window width")
	height := flag.Int("height", 1280, "initial window height")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	spec, err := scene.LoadSpec(*scenePath)
	if err != nil {
		logger.Fatal("load scene", zap.Error(err))
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("touchquad")

	game, err := app.NewGame(logger, spec, app.Options{
		ScenePath: *scenePath,
		Watch:     *watch,
		Debug:     *debug,
	})
	if err != nil {
		logger.Fatal("create game", zap.Error(err))
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("run game", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
