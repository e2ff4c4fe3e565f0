// Package sprite draws textured quads through a Kage shader.
package sprite

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/touchquad/assets"
	"github.com/milk9111/touchquad/camera"
	"github.com/milk9111/touchquad/mesh"
)

const ShaderName = "textured"

var (
	ErrNoTexture = errors.New("sprite: no texture bound")
	ErrNoShader  = errors.New("sprite: no shader")
)

// NewShader compiles the textured-quad shader. One shader may back any
// number of sprites.
func NewShader() (*ebiten.Shader, error) {
	src, err := assets.LoadShader(ShaderName)
	if err != nil {
		return nil, fmt.Errorf("sprite: load shader: %w", err)
	}
	sh, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("sprite: compile shader: %w", err)
	}
	return sh, nil
}

type Sprite struct {
	Name string

	quad    mesh.Quad
	shader  *ebiten.Shader
	texture *ebiten.Image
	tint    [4]float32

	vertices []ebiten.Vertex
}

func New(name string, quad mesh.Quad, shader *ebiten.Shader) *Sprite {
	return &Sprite{
		Name:     name,
		quad:     quad,
		shader:   shader,
		tint:     [4]float32{1, 1, 1, 1},
		vertices: make([]ebiten.Vertex, 0, len(quad.Positions)),
	}
}

func (s *Sprite) SetTexture(img *ebiten.Image) {
	s.texture = img
}

// SetTint sets the colour multiplied into the texture. Nil resets to white.
func (s *Sprite) SetTint(c color.Color) {
	if c == nil {
		s.tint = [4]float32{1, 1, 1, 1}
		return
	}
	r, g, b, a := c.RGBA()
	s.tint = [4]float32{
		float32(r) / 0xffff,
		float32(g) / 0xffff,
		float32(b) / 0xffff,
		float32(a) / 0xffff,
	}
}

// Draw renders the quad onto dst with the given model-view-projection matrix
// and returns the screen rectangle it covered. A quad clipped away by the
// near or far plane draws nothing and returns the empty rectangle.
func (s *Sprite) Draw(dst *ebiten.Image, mvp mgl32.Mat4, vp camera.Viewport) (image.Rectangle, error) {
	if s.shader == nil {
		return image.Rectangle{}, fmt.Errorf("%w: %s", ErrNoShader, s.Name)
	}
	if s.texture == nil {
		return image.Rectangle{}, fmt.Errorf("%w: %s", ErrNoTexture, s.Name)
	}

	b := s.texture.Bounds()
	verts, indices := s.quad.Project(mvp, vp, b.Dx(), b.Dy())
	if len(indices) == 0 {
		return image.Rectangle{}, nil
	}

	s.vertices = s.vertices[:0]
	for _, v := range verts {
		s.vertices = append(s.vertices, ebiten.Vertex{
			DstX:   v.DstX,
			DstY:   v.DstY,
			SrcX:   float32(b.Min.X) + v.SrcX,
			SrcY:   float32(b.Min.Y) + v.SrcY,
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		})
	}

	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Images[0] = s.texture
	op.Uniforms = map[string]any{
		"Tint": s.tint[:],
	}
	dst.DrawTrianglesShader(s.vertices, indices, s.shader, op)
	return mesh.Extent(verts), nil
}
