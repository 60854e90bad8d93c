package material

import (
	"github.com/df07/rayo/pkg/core"
)

// ImageData holds decoded texture pixels in linear color
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Color // Row-major: Pixels[y*Width + x], row 0 at the top
}

// NewImageData creates image data from row-major pixels
func NewImageData(width, height int, pixels []core.Color) *ImageData {
	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Lookup samples the image at given UV coordinates using nearest-neighbor filtering
func (d *ImageData) Lookup(uv core.Vec2) core.Color {
	if d == nil || d.Width == 0 || d.Height == 0 {
		return core.Black
	}

	// Wrap UV coordinates to [0, 1)
	u := uv.X - float64(int(uv.X))
	v := uv.Y - float64(int(uv.Y))
	if u < 0 {
		u += 1.0
	}
	if v < 0 {
		v += 1.0
	}

	// V=0 is bottom, V=1 is top (flip V for image coordinates where origin is top-left)
	x := int(u * float64(d.Width))
	y := int((1.0 - v) * float64(d.Height))

	x = max(0, min(d.Width-1, x))
	y = max(0, min(d.Height-1, y))

	return d.Pixels[y*d.Width+x]
}
