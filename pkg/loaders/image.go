package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/material"
	"github.com/ftrvxmtrx/tga"
)

// LoadImage loads a PNG, JPEG or TGA image into linear color texture data
func LoadImage(filename string) (*material.ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, err := decodeImage(file, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	return ImageDataFromImage(img), nil
}

// TGA has no magic number, so it is selected by extension rather than sniffed
func decodeImage(r io.Reader, filename string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(filename), ".tga") {
		return tga.Decode(r)
	}
	img, _, err := image.Decode(r)
	return img, err
}

// ImageDataFromImage converts a decoded image to row-major texture data in [0, 1]
func ImageDataFromImage(img image.Image) *material.ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewColor(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return material.NewImageData(width, height, pixels)
}
