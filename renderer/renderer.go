// Package renderer implements the surface callbacks that draw the touch scene.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/touchquad/behavior"
	"github.com/milk9111/touchquad/camera"
	"github.com/milk9111/touchquad/common"
	"github.com/milk9111/touchquad/mesh"
	"github.com/milk9111/touchquad/scene"
	"github.com/milk9111/touchquad/sprite"
	"github.com/milk9111/touchquad/touch"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var ErrNotCreated = errors.New("renderer: surface not created")

// DefaultScriptTimeout bounds one sprite script run within a frame.
const DefaultScriptTimeout = 10 * time.Millisecond

// Renderer receives the surface lifecycle and per-frame callbacks.
type Renderer interface {
	// OnSurfaceCreated builds GPU resources. It runs again whenever the
	// surface is recreated.
	OnSurfaceCreated() error
	// OnSurfaceChanged adapts the viewport and projection to a new size.
	OnSurfaceChanged(width, height int) error
	// OnDrawFrame draws one frame.
	OnDrawFrame(screen *ebiten.Image) error
}

// rotation axis for sprite spin, pointing away from the eye
var spinAxis = mgl32.Vec3{0, 0, -1}

type node struct {
	spec   scene.SpriteSpec
	sprite *sprite.Sprite
	script *behavior.Runtime
}

// surface holds everything OnSurfaceCreated builds for one scene.
type surface struct {
	clearColor color.Color
	shader     *ebiten.Shader
	textures   *textureCache
	nodes      []*node
}

func (s *surface) release() {
	if s == nil {
		return
	}
	s.textures.release()
	if s.shader != nil {
		s.shader.Deallocate()
	}
}

// SceneRenderer draws the sprites of a scene, moving touch-following sprites
// to the current touch position every frame.
type SceneRenderer struct {
	logger *zap.Logger
	spec   *scene.Spec
	touch  *touch.State

	cam     *camera.Camera
	current *surface
	bounds  []image.Rectangle

	scriptTimeout time.Duration

	start  time.Time
	frames int64
	now    func() time.Time
}

var _ Renderer = (*SceneRenderer)(nil)

func NewSceneRenderer(logger *zap.Logger, spec *scene.Spec, state *touch.State) *SceneRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &SceneRenderer{
		logger:        logger.Named("renderer"),
		touch:         state,
		scriptTimeout: DefaultScriptTimeout,
		now:           time.Now,
	}
	r.spec = spec
	r.cam = cameraFor(spec, nil, r.logger)
	return r
}

// cameraFor builds the camera a spec describes, carrying over the viewport
// of prev when it has one.
func cameraFor(spec *scene.Spec, prev *camera.Camera, logger *zap.Logger) *camera.Camera {
	eye := camera.DefaultEye
	near, far := camera.DefaultNear, camera.DefaultFar
	if spec != nil {
		eye = camera.Eye{
			Position: mgl32.Vec3(*spec.Camera.Eye),
			Center:   mgl32.Vec3(*spec.Camera.Center),
			Up:       mgl32.Vec3(*spec.Camera.Up),
		}
		near, far = spec.Camera.Near, spec.Camera.Far
	}
	cam := camera.New(eye, near, far)
	if prev != nil {
		if vp := prev.Viewport(); vp.Valid() {
			if err := cam.Resize(vp.Width, vp.Height); err != nil {
				logger.Warn("reapply viewport", zap.Error(err))
			}
		}
	}
	return cam
}

func (r *SceneRenderer) OnSurfaceCreated() error {
	next, err := r.build(r.spec)
	if err != nil {
		return err
	}
	r.swap(next)
	return nil
}

// pending is a sprite whose texture and script are ready for upload.
type pending struct {
	spec   scene.SpriteSpec
	key    string
	src    image.Image
	script *behavior.Runtime
}

// prepare decodes textures and compiles scripts for every sprite in spec.
// It makes no graphics calls, so a broken scene fails here before anything
// live is touched.
func (r *SceneRenderer) prepare(spec *scene.Spec) ([]pending, error) {
	if spec == nil {
		return nil, nil
	}
	sources := map[string]image.Image{}
	var (
		out  []pending
		errs error
	)
	for _, sp := range spec.Sprites {
		p := pending{spec: sp, key: textureKey(sp)}
		src, ok := sources[p.key]
		if !ok {
			var err error
			src, err = loadSource(sp)
			if err := Check(r.logger, "LoadTexture "+sp.Name, err); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			sources[p.key] = src
		}
		p.src = src
		if sp.Script != "" {
			rt, err := behavior.Load(sp.Script)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			p.script = rt
		}
		out = append(out, p)
	}
	return out, errs
}

// build creates the shader, textures and sprites for spec without touching
// the live surface.
func (r *SceneRenderer) build(spec *scene.Spec) (*surface, error) {
	sprites, err := r.prepare(spec)
	if err != nil {
		return nil, err
	}

	next := &surface{
		clearColor: color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
		textures:   newTextureCache(),
	}
	if spec != nil && spec.ClearColor != nil {
		next.clearColor = spec.ClearColor.Color
	}

	shader, err := sprite.NewShader()
	if err := Check(r.logger, "NewShader", err); err != nil {
		return nil, err
	}
	next.shader = shader

	for _, p := range sprites {
		s := sprite.New(p.spec.Name, mesh.NewQuad(p.spec.Size), shader)
		s.SetTexture(next.textures.upload(p.key, p.src))
		if p.spec.Tint != nil {
			s.SetTint(p.spec.Tint.Color)
		}
		next.nodes = append(next.nodes, &node{spec: p.spec, sprite: s, script: p.script})
	}
	return next, nil
}

// swap makes next the live surface and frees the one it replaces.
func (r *SceneRenderer) swap(next *surface) {
	r.current.release()
	r.current = next
	r.bounds = nil
	r.start = r.now()
	r.frames = 0
	r.logger.Info("surface created",
		zap.Int("sprites", len(next.nodes)),
		zap.Int("textures", next.textures.len()),
	)
}

func (r *SceneRenderer) OnSurfaceChanged(width, height int) error {
	if err := r.cam.Resize(width, height); err != nil {
		return Check(r.logger, "Viewport", err)
	}
	vp := r.cam.Viewport()
	r.logger.Debug("surface changed",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float32("x_ratio", vp.XRatio),
		zap.Float32("y_ratio", vp.YRatio),
	)
	return nil
}

func (r *SceneRenderer) OnDrawFrame(screen *ebiten.Image) error {
	if r.current == nil {
		return ErrNotCreated
	}
	screen.Fill(r.current.clearColor)
	r.bounds = r.bounds[:0]

	vp := r.cam.Viewport()
	if !vp.Valid() {
		return nil
	}

	// projection × view
	viewProj := r.cam.ViewProjection()
	snap := r.touch.Snapshot()
	uptime := r.now().Sub(r.start)

	for _, n := range r.current.nodes {
		if !n.spec.IsVisible() {
			continue
		}
		model, err := r.modelMatrix(n, vp, snap, uptime)
		if err != nil {
			return Check(r.logger, "Script "+n.spec.Name, err)
		}
		mvp := viewProj.Mul4(model)
		b, err := n.sprite.Draw(screen, mvp, vp)
		if err := Check(r.logger, "DrawTrianglesShader "+n.spec.Name, err); err != nil {
			return err
		}
		if !b.Empty() {
			r.bounds = append(r.bounds, b)
		}
	}
	r.frames++
	return nil
}

func (r *SceneRenderer) modelMatrix(n *node, vp camera.Viewport, snap touch.Snapshot, uptime time.Duration) (mgl32.Mat4, error) {
	model := mgl32.Ident4()
	if n.spec.FollowTouch {
		x, y := vp.TouchToWorld(snap.X, snap.Y)
		model = common.Translate(model, x, y, 0)
	}
	model = common.Translate(model, n.spec.Offset[0], n.spec.Offset[1], 0)

	angle := float32(0)
	scale := float32(1)
	if n.spec.RotateWithTouch {
		angle = snap.Angle
	}
	if n.script != nil {
		ctx, cancel := context.WithTimeout(context.Background(), r.scriptTimeout)
		out, err := n.script.Run(ctx, behavior.Inputs{
			UptimeMS:   uptime.Milliseconds(),
			Frame:      r.frames,
			TouchX:     snap.X,
			TouchY:     snap.Y,
			TouchAngle: snap.Angle,
		})
		cancel()
		if err != nil {
			return mgl32.Mat4{}, err
		}
		angle += out.Angle
		scale = out.Scale
	}
	if angle != 0 {
		model = common.Rotate(model, angle, spinAxis)
	}
	if scale != 1 {
		model = common.Scale(model, scale, scale, 1)
	}
	return model, nil
}

// Reload swaps in a new scene and rebuilds GPU resources for it. When the
// new scene fails to build, the current scene, camera and spec stay live.
func (r *SceneRenderer) Reload(spec *scene.Spec) error {
	next, err := r.build(spec)
	if err != nil {
		return fmt.Errorf("renderer: reload: %w", err)
	}
	r.spec = spec
	r.cam = cameraFor(spec, r.cam, r.logger)
	r.swap(next)
	return nil
}

// Camera exposes the current camera for overlays.
func (r *SceneRenderer) Camera() *camera.Camera {
	return r.cam
}

// Bounds reports the screen rectangles covered by the sprites drawn in the
// last frame.
func (r *SceneRenderer) Bounds() []image.Rectangle {
	return r.bounds
}

// Close frees all GPU resources.
func (r *SceneRenderer) Close() {
	r.current.release()
	r.current = nil
}
