package renderer

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/touchquad/behavior"
	"github.com/milk9111/touchquad/scene"
	"github.com/milk9111/touchquad/touch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCheck(t *testing.T) {
	logger := zaptest.NewLogger(t)
	require.NoError(t, Check(logger, "noop", nil))

	cause := errors.New("invalid operation")
	err := Check(logger, "DrawTrianglesShader", cause)

	var gerr *GraphicsError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "DrawTrianglesShader", gerr.Op)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "DrawTrianglesShader: graphics error: invalid operation", err.Error())
}

func newTestRenderer(t *testing.T, width, height int) *SceneRenderer {
	t.Helper()
	spec, err := scene.LoadSpec("")
	require.NoError(t, err)
	r := NewSceneRenderer(zaptest.NewLogger(t), spec, touch.NewState(touch.DefaultX, touch.DefaultY))
	require.NoError(t, r.OnSurfaceChanged(width, height))
	return r
}

func TestModelMatrixFollowsTouch(t *testing.T) {
	r := newTestRenderer(t, 1000, 1000)
	vp := r.Camera().Viewport()

	cases := []struct {
		name   string
		spec   scene.SpriteSpec
		snap   touch.Snapshot
		origin mgl32.Vec4
	}{
		{"follow_center", scene.SpriteSpec{FollowTouch: true}, touch.Snapshot{X: 500, Y: 500}, mgl32.Vec4{0, 0, 0, 1}},
		{"follow_corner", scene.SpriteSpec{FollowTouch: true}, touch.Snapshot{X: 0, Y: 0}, mgl32.Vec4{1, 1, 0, 1}},
		{"static_offset", scene.SpriteSpec{Offset: [2]float32{-0.2, 0.2}}, touch.Snapshot{X: 0, Y: 0}, mgl32.Vec4{-0.2, 0.2, 0, 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			model, err := r.modelMatrix(&node{spec: c.spec}, vp, c.snap, 0)
			require.NoError(t, err)
			got := model.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
			for i := range got {
				assert.InDelta(t, c.origin[i], got[i], 1e-5)
			}
		})
	}
}

func TestModelMatrixRotation(t *testing.T) {
	r := newTestRenderer(t, 800, 600)
	vp := r.Camera().Viewport()

	n := &node{spec: scene.SpriteSpec{RotateWithTouch: true}}
	model, err := r.modelMatrix(n, vp, touch.Snapshot{Angle: 90}, 0)
	require.NoError(t, err)

	// spin axis points away from the eye, so +90 turns +X toward -Y
	p := model.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, -1, p[1], 1e-5)
}

func TestModelMatrixScript(t *testing.T) {
	r := newTestRenderer(t, 800, 600)
	vp := r.Camera().Viewport()

	rt, err := behavior.Compile("grow", []byte(`angle = 0.0
scale = 2.0`))
	require.NoError(t, err)

	model, err := r.modelMatrix(&node{script: rt}, vp, touch.Snapshot{}, time.Second)
	require.NoError(t, err)
	p := model.Mul4x1(mgl32.Vec4{0.4, -0.4, 0, 1})
	assert.InDelta(t, 0.8, p[0], 1e-5)
	assert.InDelta(t, -0.8, p[1], 1e-5)

	bad, err := behavior.Compile("bad", []byte(`scale = "big"`))
	require.NoError(t, err)
	_, err = r.modelMatrix(&node{script: bad}, vp, touch.Snapshot{}, 0)
	require.ErrorIs(t, err, behavior.ErrBadOutput)
}

func TestDrawBeforeCreate(t *testing.T) {
	r := newTestRenderer(t, 100, 100)
	require.ErrorIs(t, r.OnDrawFrame(nil), ErrNotCreated)
}

func TestSurfaceChangedRejectsEmpty(t *testing.T) {
	r := newTestRenderer(t, 640, 480)
	err := r.OnSurfaceChanged(0, 480)

	var gerr *GraphicsError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Viewport", gerr.Op)
	assert.Equal(t, 640, r.Camera().Viewport().Width)
}

func TestTextureKey(t *testing.T) {
	plain := scene.SpriteSpec{Texture: "builtin:star", TextureSize: 64}
	assert.Equal(t, "builtin:star@64", textureKey(plain))

	outlined := plain
	outlined.Outline = &scene.OutlineSpec{Thickness: 2, Color: &scene.YAMLColor{Color: color.Black}}
	assert.NotEqual(t, textureKey(plain), textureKey(outlined))

	zero := plain
	zero.Outline = &scene.OutlineSpec{Thickness: 0, Color: &scene.YAMLColor{Color: color.Black}}
	assert.Equal(t, textureKey(plain), textureKey(zero))
}

func TestModelMatrixScriptTimeout(t *testing.T) {
	r := newTestRenderer(t, 800, 600)
	r.scriptTimeout = 20 * time.Millisecond

	rt, err := behavior.Compile("stuck", []byte(`for true {}`))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := r.modelMatrix(&node{script: rt}, r.Camera().Viewport(), touch.Snapshot{}, 0)
		done <- err
	}()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("script ran past the frame deadline")
	}
}

func TestReloadKeepsSceneOnFailure(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"missing_texture", `
camera: {eye: [0, 0, -5]}
sprites: [{name: a, texture: does-not-exist.png}]`},
		{"missing_script", `
camera: {eye: [0, 0, -5]}
sprites: [{name: a, texture: "builtin:unit_square", script: does-not-exist.tengo}]`},
		{"broken_script", `
sprites: [{name: a, texture: "builtin:unit_square", script: "` + brokenScript(t) + `"}]`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newTestRenderer(t, 640, 480)
			spec, cam := r.spec, r.Camera()

			bad, err := scene.Parse([]byte(c.doc))
			require.NoError(t, err)

			require.Error(t, r.Reload(bad))
			assert.Same(t, spec, r.spec)
			assert.Same(t, cam, r.Camera())
			assert.Equal(t, 640, r.Camera().Viewport().Width)
		})
	}
}

func brokenScript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "broken.tengo")
	require.NoError(t, os.WriteFile(path, []byte("angle = (\n"), 0o644))
	return path
}

func TestPrepareSharesTextureSources(t *testing.T) {
	r := newTestRenderer(t, 640, 480)
	spec, err := scene.Parse([]byte(`
sprites:
  - {name: a, texture: "builtin:star", texture_size: 16}
  - {name: b, texture: "builtin:star", texture_size: 16, script: spin.tengo}
  - {name: c, texture: "builtin:unit_square", texture_size: 16}`))
	require.NoError(t, err)

	sprites, err := r.prepare(spec)
	require.NoError(t, err)
	require.Len(t, sprites, 3)

	assert.Equal(t, sprites[0].key, sprites[1].key)
	assert.Same(t, sprites[0].src, sprites[1].src)
	assert.NotEqual(t, sprites[0].key, sprites[2].key)
	assert.Nil(t, sprites[0].script)
	require.NotNil(t, sprites[1].script)
	assert.Equal(t, "spin.tengo", sprites[1].script.Name())
}
