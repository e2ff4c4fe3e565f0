package mesh

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/touchquad/camera"
)

const DefaultSize float32 = 0.4

// Vertex is a projected quad corner: destination in surface pixels and
// source in texture pixels.
type Vertex struct {
	DstX, DstY float32
	SrcX, SrcY float32
}

// Quad is a square anchored at its top-left corner, extending along +X and -Y.
type Quad struct {
	Positions [4]mgl32.Vec3
	TexCoords [4][2]float32
	Indices   [6]uint16
}

func NewQuad(size float32) Quad {
	if size <= 0 {
		size = DefaultSize
	}
	return Quad{
		Positions: [4]mgl32.Vec3{
			{0, 0, 0},        // top left
			{0, -size, 0},    // bottom left
			{size, -size, 0}, // bottom right
			{size, 0, 0},     // top right
		},
		TexCoords: [4][2]float32{
			{1, 0},
			{1, 1},
			{0, 1},
			{0, 0},
		},
		Indices: [6]uint16{0, 1, 2, 0, 2, 3},
	}
}

type clipVertex struct {
	pos mgl32.Vec4
	uv  [2]float32
}

func nearDistance(p mgl32.Vec4) float32 { return p.Z() + p.W() }
func farDistance(p mgl32.Vec4) float32  { return p.W() - p.Z() }

func inside(p mgl32.Vec4) bool {
	return nearDistance(p) >= 0 && farDistance(p) >= 0
}

// Project transforms every corner by mvp and maps it onto vp. Texture
// coordinates are scaled to a texW x texH source image.
//
// Triangles are clipped against the near and far planes before the
// perspective divide. When nothing is clipped the quad's own corners and
// draw order come back unchanged; a quad entirely outside the depth range
// yields no vertices.
func (q Quad) Project(mvp mgl32.Mat4, vp camera.Viewport, texW, texH int) ([]Vertex, []uint16) {
	var corners [4]clipVertex
	all := true
	for i, p := range q.Positions {
		corners[i] = clipVertex{pos: mvp.Mul4x1(p.Vec4(1)), uv: q.TexCoords[i]}
		all = all && inside(corners[i].pos)
	}

	screen := func(c clipVertex) Vertex {
		sx, sy := vp.ClipToScreen(c.pos)
		return Vertex{
			DstX: sx,
			DstY: sy,
			SrcX: c.uv[0] * float32(texW),
			SrcY: c.uv[1] * float32(texH),
		}
	}

	if all {
		verts := make([]Vertex, len(corners))
		for i, c := range corners {
			verts[i] = screen(c)
		}
		indices := make([]uint16, len(q.Indices))
		copy(indices, q.Indices[:])
		return verts, indices
	}

	var (
		verts   []Vertex
		indices []uint16
	)
	for t := 0; t+2 < len(q.Indices); t += 3 {
		poly := []clipVertex{
			corners[q.Indices[t]],
			corners[q.Indices[t+1]],
			corners[q.Indices[t+2]],
		}
		poly = clipPolygon(poly, nearDistance)
		poly = clipPolygon(poly, farDistance)
		if len(poly) < 3 {
			continue
		}
		base := uint16(len(verts))
		for _, c := range poly {
			verts = append(verts, screen(c))
		}
		for i := 1; i+1 < len(poly); i++ {
			indices = append(indices, base, base+uint16(i), base+uint16(i+1))
		}
	}
	return verts, indices
}

// clipPolygon keeps the part of poly where dist >= 0 (Sutherland-Hodgman).
func clipPolygon(poly []clipVertex, dist func(mgl32.Vec4) float32) []clipVertex {
	if len(poly) == 0 {
		return nil
	}
	out := make([]clipVertex, 0, len(poly)+1)
	prev := poly[len(poly)-1]
	dPrev := dist(prev.pos)
	for _, cur := range poly {
		dCur := dist(cur.pos)
		switch {
		case dCur >= 0 && dPrev < 0:
			out = append(out, lerpClip(prev, cur, dPrev/(dPrev-dCur)), cur)
		case dCur >= 0:
			out = append(out, cur)
		case dPrev >= 0:
			out = append(out, lerpClip(prev, cur, dPrev/(dPrev-dCur)))
		}
		prev, dPrev = cur, dCur
	}
	return out
}

func lerpClip(a, b clipVertex, t float32) clipVertex {
	return clipVertex{
		pos: a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
		uv: [2]float32{
			a.uv[0] + (b.uv[0]-a.uv[0])*t,
			a.uv[1] + (b.uv[1]-a.uv[1])*t,
		},
	}
}

// Bounds returns the screen-space bounding box of the projected quad, or the
// empty rectangle when the quad is clipped away entirely.
func (q Quad) Bounds(mvp mgl32.Mat4, vp camera.Viewport) image.Rectangle {
	verts, _ := q.Project(mvp, vp, 0, 0)
	return Extent(verts)
}

// Extent returns the pixel rectangle covering every destination point.
func Extent(verts []Vertex) image.Rectangle {
	if len(verts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := -float32(math.MaxFloat32), -float32(math.MaxFloat32)
	for _, v := range verts {
		minX = min(minX, v.DstX)
		minY = min(minY, v.DstY)
		maxX = max(maxX, v.DstX)
		maxY = max(maxY, v.DstY)
	}
	return image.Rect(
		int(math.Floor(float64(minX))),
		int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))),
		int(math.Ceil(float64(maxY))),
	)
}

// IndexSlice returns the draw order as a slice suitable for index buffers.
func (q Quad) IndexSlice() []uint16 {
	return q.Indices[:]
}
