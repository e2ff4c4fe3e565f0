// Package camera maps between touch coordinates, world space and screen pixels.
package camera

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/touchquad/common"
)

const (
	DefaultNear float32 = 3
	DefaultFar  float32 = 7
)

var ErrEmptySurface = errors.New("camera: empty surface")

// Viewport holds the surface size and the half-extent of the visible world
// along each axis. The shorter axis always spans [-1, 1].
type Viewport struct {
	Width  int
	Height int
	XRatio float32
	YRatio float32
}

func NewViewport(width, height int) (Viewport, error) {
	if width <= 0 || height <= 0 {
		return Viewport{}, fmt.Errorf("%w: %dx%d", ErrEmptySurface, width, height)
	}
	vp := Viewport{Width: width, Height: height}
	if width > height {
		vp.XRatio = float32(width) / float32(height)
		vp.YRatio = 1
	} else {
		vp.XRatio = 1
		vp.YRatio = float32(height) / float32(width)
	}
	return vp, nil
}

// Valid reports whether the viewport has a usable size.
func (vp Viewport) Valid() bool {
	return vp.Width > 0 && vp.Height > 0
}

// Projection returns the aspect-correct frustum for this viewport.
func (vp Viewport) Projection(near, far float32) (mgl32.Mat4, error) {
	return common.Frustum(-vp.XRatio, vp.XRatio, -vp.YRatio, vp.YRatio, near, far)
}

// TouchToWorld converts a touch position in surface pixels to a world-space
// translation on the z=0 plane as seen from DefaultEye.
func (vp Viewport) TouchToWorld(tx, ty float32) (float32, float32) {
	if !vp.Valid() {
		return 0, 0
	}
	w := float32(vp.Width)
	h := float32(vp.Height)
	// Touch coordinates are truncated to whole pixels.
	touchX := float32(int(w - tx))
	touchY := float32(int(h - ty))

	x := touchX*(vp.XRatio*2)/w - vp.XRatio
	y := touchY*(vp.YRatio*2)/h - vp.YRatio
	return x, y
}

// ClipToScreen performs the perspective divide and maps normalized device
// coordinates to surface pixels with the origin at the top-left corner.
// clip must already lie inside the near plane, so clip.W() > 0.
func (vp Viewport) ClipToScreen(clip mgl32.Vec4) (float32, float32) {
	w := clip.W()
	ndcX := clip[0] / w
	ndcY := clip[1] / w
	sx := (ndcX + 1) / 2 * float32(vp.Width)
	sy := (1 - ndcY) / 2 * float32(vp.Height)
	return sx, sy
}

// Eye describes the view transform.
type Eye struct {
	Position mgl32.Vec3
	Center   mgl32.Vec3
	Up       mgl32.Vec3
}

// DefaultEye sits three units behind the origin on -Z, looking toward +Z.
var DefaultEye = Eye{
	Position: mgl32.Vec3{0, 0, -3},
	Center:   mgl32.Vec3{0, 0, 0},
	Up:       mgl32.Vec3{0, 1, 0},
}

func (e Eye) View() mgl32.Mat4 {
	return mgl32.LookAtV(e.Position, e.Center, e.Up)
}

// Camera bundles the eye and clip planes with the current viewport.
type Camera struct {
	Eye  Eye
	Near float32
	Far  float32

	viewport   Viewport
	projection mgl32.Mat4
}

func New(eye Eye, near, far float32) *Camera {
	if near <= 0 {
		near = DefaultNear
	}
	if far <= 0 {
		far = DefaultFar
	}
	return &Camera{Eye: eye, Near: near, Far: far}
}

// Resize recomputes the viewport and projection. On error the previous
// viewport is kept.
func (c *Camera) Resize(width, height int) error {
	vp, err := NewViewport(width, height)
	if err != nil {
		return err
	}
	proj, err := vp.Projection(c.Near, c.Far)
	if err != nil {
		return fmt.Errorf("camera: projection: %w", err)
	}
	c.viewport = vp
	c.projection = proj
	return nil
}

func (c *Camera) Viewport() Viewport {
	return c.viewport
}

func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

// ViewProjection returns projection × view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.Eye.View())
}
