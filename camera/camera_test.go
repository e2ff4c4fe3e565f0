package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/touchquad/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViewportRatios(t *testing.T) {
	cases := []struct {
		name           string
		w, h           int
		xRatio, yRatio float32
	}{
		{"landscape", 1920, 1080, 1920.0 / 1080.0, 1},
		{"portrait", 720, 1280, 1, 1280.0 / 720.0},
		{"square", 500, 500, 1, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			vp, err := NewViewport(c.w, c.h)
			require.NoError(t, err)
			assert.InDelta(t, c.xRatio, vp.XRatio, 1e-6)
			assert.InDelta(t, c.yRatio, vp.YRatio, 1e-6)
		})
	}
}

func TestNewViewportEmpty(t *testing.T) {
	for _, size := range [][2]int{{0, 100}, {100, 0}, {-5, 10}} {
		_, err := NewViewport(size[0], size[1])
		require.ErrorIs(t, err, ErrEmptySurface)
	}
}

func TestProjectionIsAspectFrustum(t *testing.T) {
	vp, err := NewViewport(800, 400)
	require.NoError(t, err)

	got, err := vp.Projection(DefaultNear, DefaultFar)
	require.NoError(t, err)
	want, err := common.Frustum(-2, 2, -1, 1, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTouchToWorld(t *testing.T) {
	vp, err := NewViewport(1000, 500)
	require.NoError(t, err)

	cases := []struct {
		name   string
		tx, ty float32
		wx, wy float32
	}{
		{"center", 500, 250, 0, 0},
		{"top_left", 0, 0, 2, 1},
		{"bottom_right", 1000, 500, -2, -1},
		{"truncates", 500.9, 250.9, -0.004, -0.004},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			x, y := vp.TouchToWorld(c.tx, c.ty)
			assert.InDelta(t, c.wx, x, 1e-5)
			assert.InDelta(t, c.wy, y, 1e-5)
		})
	}
}

func TestTouchProjectsBackOntoTouch(t *testing.T) {
	sizes := [][2]int{{1080, 1920}, {1920, 1080}, {640, 640}}
	touches := [][2]float32{{0, 0}, {500, 500}, {123, 456}, {639, 10}}

	for _, size := range sizes {
		cam := New(DefaultEye, DefaultNear, DefaultFar)
		require.NoError(t, cam.Resize(size[0], size[1]))
		vp := cam.Viewport()

		for _, touch := range touches {
			wx, wy := vp.TouchToWorld(touch[0], touch[1])
			mvp := common.Translate(cam.ViewProjection(), wx, wy, 0)
			sx, sy := vp.ClipToScreen(mvp.Mul4x1(mgl32.Vec4{0, 0, 0, 1}))
			assert.InDeltaf(t, touch[0], sx, 1, "x for %v on %v", touch, size)
			assert.InDeltaf(t, touch[1], sy, 1, "y for %v on %v", touch, size)
		}
	}
}

func TestResizeKeepsPreviousOnError(t *testing.T) {
	cam := New(DefaultEye, 0, 0)
	assert.Equal(t, DefaultNear, cam.Near)
	assert.Equal(t, DefaultFar, cam.Far)

	require.NoError(t, cam.Resize(300, 200))
	before := cam.Viewport()

	require.ErrorIs(t, cam.Resize(0, 200), ErrEmptySurface)
	assert.Equal(t, before, cam.Viewport())
}

func TestTouchToWorldInvalidViewport(t *testing.T) {
	x, y := Viewport{}.TouchToWorld(10, 10)
	assert.Zero(t, x)
	assert.Zero(t, y)
}
