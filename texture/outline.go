package texture

import (
	"image"
	"image/color"
	"image/draw"
)

// Outline returns a copy of src with every transparent pixel within thickness
// pixels of an opaque one painted in c. The source is drawn over the outline.
func Outline(src image.Image, thickness int, c color.Color) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if thickness <= 0 {
		draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
		return out
	}

	opaque := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			opaque[y*w+x] = a != 0
		}
	}

	near := func(x, y int) bool {
		for yy := max(y-thickness, 0); yy <= min(y+thickness, h-1); yy++ {
			for xx := max(x-thickness, 0); xx <= min(x+thickness, w-1); xx++ {
				if opaque[yy*w+xx] {
					return true
				}
			}
		}
		return false
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !opaque[y*w+x] && near(x, y) {
				out.Set(x, y, c)
			}
		}
	}

	draw.Draw(out, out.Bounds(), src, b.Min, draw.Over)
	return out
}
