// Package app adapts the scene renderer to the Ebitengine game loop.
package app

import (
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/touchquad/renderer"
	"github.com/milk9111/touchquad/scene"
	"github.com/milk9111/touchquad/system"
	"github.com/milk9111/touchquad/touch"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

// sceneRenderer is the part of renderer.SceneRenderer the game loop drives.
type sceneRenderer interface {
	renderer.Renderer
	Reload(spec *scene.Spec) error
	Bounds() []image.Rectangle
	Close()
}

type Options struct {
	ScenePath string
	Watch     bool
	Debug     bool
}

// Game forwards Ebitengine's loop to the renderer callbacks: the first Draw
// creates the surface, a new layout size changes it and every Draw draws a
// frame.
type Game struct {
	logger   *zap.Logger
	opts     Options
	spec     *scene.Spec
	renderer sceneRenderer
	tracker  *touch.Tracker
	input    *system.InputSystem
	watcher  *scene.Watcher

	created       bool
	width, height int
	drawnW        int
	drawnH        int
	pending       *scene.Spec
	err           error

	scaleFactor func() float64
}

func NewGame(logger *zap.Logger, spec *scene.Spec, opts Options) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	state := touch.NewState(*spec.Touch.StartX, *spec.Touch.StartY)
	g := newGame(logger, spec, opts, renderer.NewSceneRenderer(logger, spec, state), state)

	if opts.Watch {
		dir := watchDir(opts.ScenePath)
		w, err := scene.NewWatcher(dir)
		if err != nil {
			return nil, fmt.Errorf("app: watch %s: %w", dir, err)
		}
		g.watcher = w
		logger.Info("watching scene", zap.String("dir", dir))
	}
	return g, nil
}

func newGame(logger *zap.Logger, spec *scene.Spec, opts Options, r sceneRenderer, state *touch.State) *Game {
	tracker := touch.NewTracker(state)
	return &Game{
		logger:   logger,
		opts:     opts,
		spec:     spec,
		renderer: r,
		tracker:  tracker,
		input:    system.NewInputSystem(tracker),
		scaleFactor: func() float64 {
			return ebiten.Monitor().DeviceScaleFactor()
		},
	}
}

func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.input.Update()
	g.pollWatcher()
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			spec, err := scene.LoadSpec(g.opts.ScenePath)
			if err != nil {
				g.logger.Warn("scene reload failed, keeping current scene", zap.String("path", path), zap.Error(err))
				continue
			}
			g.logger.Info("scene changed", zap.String("path", path))
			g.pending = spec
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Warn("scene watcher", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.err != nil {
		return
	}

	if g.pending != nil {
		g.reload(g.pending)
		g.pending = nil
	}

	if !g.created {
		if err := g.renderer.OnSurfaceCreated(); err != nil {
			g.fail(err)
			return
		}
		g.created = true
	}

	if g.width != g.drawnW || g.height != g.drawnH {
		if err := g.renderer.OnSurfaceChanged(g.width, g.height); err != nil {
			g.fail(err)
			return
		}
		g.tracker.SetSurface(g.width, g.height)
		g.drawnW, g.drawnH = g.width, g.height
	}

	if err := g.renderer.OnDrawFrame(screen); err != nil {
		g.fail(err)
		return
	}

	if g.opts.Debug || g.spec.DebugOverlay {
		g.drawOverlay(screen)
	}
}

// reload swaps in spec. A scene that fails to build is logged and the
// current one keeps running.
func (g *Game) reload(spec *scene.Spec) {
	if err := g.renderer.Reload(spec); err != nil {
		g.logger.Warn("scene reload failed, keeping current scene", zap.Error(err))
		return
	}
	g.spec = spec
	g.created = true
	g.tracker.State().SetPosition(*spec.Touch.StartX, *spec.Touch.StartY)
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	for _, b := range g.renderer.Bounds() {
		vector.StrokeRect(screen,
			float32(b.Min.X), float32(b.Min.Y), float32(b.Dx()), float32(b.Dy()),
			1, colornames.Lime, false)
	}
	snap := g.tracker.State().Snapshot()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f  Touch: %.0f,%.0f  Angle: %.1f",
		ebiten.ActualFPS(), snap.X, snap.Y, snap.Angle))
}

// fail records the first error; the next Update returns it and stops the loop.
func (g *Game) fail(err error) {
	if g.err == nil {
		g.err = err
		g.logger.Error("render aborted", zap.Error(err))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	scale := g.scaleFactor()
	w := math.Ceil(outsideWidth * scale)
	h := math.Ceil(outsideHeight * scale)
	g.width, g.height = int(w), int(h)
	return w, h
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() error {
	g.renderer.Close()
	if g.watcher != nil {
		return g.watcher.Close()
	}
	return nil
}
