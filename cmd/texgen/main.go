// Command texgen writes the builtin sprite textures to PNG files so they can
// be inspected or edited and loaded back through a scene file.
package main

import (
	"flag"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/touchquad/texture"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

func main() {
	out := flag.String("out", ".", "output directory")
	size := flag.Int("size", texture.DefaultSize, "texture size in pixels")
	outline := flag.Int("outline", 0, "outline thickness in pixels (0 disables)")
	outlineColor := flag.String("outline-color", "black", "outline colour name")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	c, ok := colornames.Map[strings.ToLower(*outlineColor)]
	if !ok {
		logger.Fatal("unknown colour", zap.String("color", *outlineColor))
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		logger.Fatal("create output dir", zap.Error(err))
	}

	for _, name := range []string{texture.UnitSquare, texture.Star} {
		img, err := texture.Generate(name, *size)
		if err != nil {
			logger.Fatal("generate", zap.String("texture", name), zap.Error(err))
		}
		var final image.Image = img
		if *outline > 0 {
			final = texture.Outline(img, *outline, c)
		}

		path := filepath.Join(*out, strings.TrimPrefix(name, texture.BuiltinPrefix)+".png")
		if err := writePNG(path, final); err != nil {
			logger.Fatal("write", zap.String("path", path), zap.Error(err))
		}
		logger.Info("wrote texture", zap.String("path", path), zap.Int("size", *size))
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
