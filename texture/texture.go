// Package texture produces the CPU-side images sprites sample from.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/image/vector"
)

const (
	BuiltinPrefix = "builtin:"
	UnitSquare    = BuiltinPrefix + "unit_square"
	Star          = BuiltinPrefix + "star"

	DefaultSize = 128
)

var ErrUnknownBuiltin = errors.New("texture: unknown builtin")

// Load resolves name to an image. Builtin names are generated at the given
// size; anything else is read from fsys (when non-nil) and then from disk.
func Load(name string, size int, fsys fs.FS) (image.Image, error) {
	if name == "" {
		return nil, fmt.Errorf("texture: empty name")
	}
	if strings.HasPrefix(name, BuiltinPrefix) {
		return Generate(name, size)
	}

	if fsys != nil {
		if b, err := fs.ReadFile(fsys, filepath.ToSlash(name)); err == nil {
			return Decode(bytes.NewReader(b))
		}
	}

	tried := []string{name, filepath.Join("assets", name), filepath.Base(name)}
	for _, p := range tried {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		img, err := Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("texture: decode %s: %w", p, err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("texture: failed to load %s", name)
}

// Decode reads a PNG or JPEG image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Generate renders one of the builtin textures.
func Generate(name string, size int) (*image.RGBA, error) {
	if size <= 0 {
		size = DefaultSize
	}
	switch name {
	case UnitSquare:
		return unitSquare(size), nil
	case Star:
		return star(size, colornames.Gold), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, name)
	}
}

// unitSquare is a 4x4 checker framed by a solid border.
func unitSquare(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/4, 1)
	border := max(size/32, 1)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			var c color.RGBA
			switch {
			case x < border || y < border || x >= size-border || y >= size-border:
				c = colornames.Black
			case (x/cell+y/cell)%2 == 0:
				c = colornames.White
			default:
				c = colornames.Cornflowerblue
			}
			img.SetRGBA(x, y, c)
		}
	}

	// mark the top-left cell so orientation is visible on screen
	marker := image.Rect(border, border, cell, cell)
	draw.Draw(img, marker, image.NewUniform(colornames.Crimson), image.Point{}, draw.Src)
	return img
}

// star is a five-point star on a transparent background.
func star(size int, fill color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	cx := float64(size) / 2
	cy := float64(size) / 2
	outer := float64(size) * 0.48
	inner := outer * 0.4

	z := vector.NewRasterizer(size, size)
	for i := 0; i < 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		x := float32(cx + r*math.Cos(a))
		y := float32(cy + r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	z.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{})
	return img
}
