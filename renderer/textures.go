package renderer

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/touchquad/scene"
	"github.com/milk9111/touchquad/texture"
)

// textureCache uploads each texture once per surface.
type textureCache struct {
	images map[string]*ebiten.Image
}

func newTextureCache() *textureCache {
	return &textureCache{images: map[string]*ebiten.Image{}}
}

func textureKey(sp scene.SpriteSpec) string {
	key := fmt.Sprintf("%s@%d", sp.Texture, sp.TextureSize)
	if o := sp.Outline; o != nil && o.Thickness > 0 {
		r, g, b, a := o.Color.RGBA()
		key += fmt.Sprintf("+outline%d:%04x%04x%04x%04x", o.Thickness, r, g, b, a)
	}
	return key
}

// loadSource decodes or generates the texture for sp on the CPU.
func loadSource(sp scene.SpriteSpec) (image.Image, error) {
	// Only shaders are embedded; texture files come from disk.
	src, err := texture.Load(sp.Texture, sp.TextureSize, nil)
	if err != nil {
		return nil, err
	}
	if o := sp.Outline; o != nil && o.Thickness > 0 {
		src = texture.Outline(src, o.Thickness, o.Color)
	}
	return src, nil
}

func (c *textureCache) upload(key string, src image.Image) *ebiten.Image {
	if img := c.images[key]; img != nil {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	c.images[key] = img
	return img
}

// release frees GPU memory for every cached texture.
func (c *textureCache) release() {
	for key, img := range c.images {
		img.Deallocate()
		delete(c.images, key)
	}
}

func (c *textureCache) len() int {
	return len(c.images)
}
