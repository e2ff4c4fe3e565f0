// Package mobile is the gomobile binding entry point:
//
//	ebitenmobile bind -target android -javapkg com.example.touchquad -o touchquad.aar ./mobile
package mobile

import (
	"github.com/hajimehoshi/ebiten/v2/mobile"
	"github.com/milk9111/touchquad/app"
	"github.com/milk9111/touchquad/scene"
	"go.uber.org/zap"
)

func init() {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	spec, err := scene.LoadSpec(scene.DefaultName)
	if err != nil {
		logger.Fatal("load scene", zap.Error(err))
	}
	game, err := app.NewGame(logger, spec, app.Options{})
	if err != nil {
		logger.Fatal("create game", zap.Error(err))
	}
	mobile.SetGame(game)
}

// Dummy is required so gomobile exports this package.
func Dummy() {}
