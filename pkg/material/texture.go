package material

import (
	"math"

	"github.com/df07/rayo/pkg/core"
)

// TextureKind selects the texture variant
type TextureKind int

const (
	TextureConstant  TextureKind = iota // Single color everywhere
	TextureCheckered                    // 3D sine checker of two colors
	TextureImage                        // Decoded bitmap looked up by (u, v)
)

func (k TextureKind) String() string {
	switch k {
	case TextureConstant:
		return "constant"
	case TextureCheckered:
		return "checkered"
	case TextureImage:
		return "image"
	default:
		return "unknown"
	}
}

// Texture provides spatially-varying colors for materials.
// Only the fields of the selected Kind are meaningful.
type Texture struct {
	Kind TextureKind

	Color core.Color // TextureConstant

	Even  core.Color // TextureCheckered
	Odd   core.Color // TextureCheckered
	Scale float64    // TextureCheckered, spatial frequency

	Image *ImageData // TextureImage, shared and read-only
}

// NewConstantTexture creates a texture returning color at every point
func NewConstantTexture(color core.Color) Texture {
	return Texture{Kind: TextureConstant, Color: color}
}

// NewCheckeredTexture creates a 3D checker pattern alternating between even and odd
func NewCheckeredTexture(even, odd core.Color, scale float64) Texture {
	return Texture{Kind: TextureCheckered, Even: even, Odd: odd, Scale: scale}
}

// NewImageTexture creates a texture backed by decoded pixel data
func NewImageTexture(image *ImageData) Texture {
	return Texture{Kind: TextureImage, Image: image}
}

// Value returns the texture color at the given surface coordinates and world point.
// Procedural variants use the point, image textures use uv.
func (t Texture) Value(uv core.Vec2, point core.Vec3) core.Color {
	switch t.Kind {
	case TextureCheckered:
		sines := math.Sin(t.Scale*point.X) * math.Sin(t.Scale*point.Y) * math.Sin(t.Scale*point.Z)
		if sines < 0 {
			return t.Odd
		}
		return t.Even
	case TextureImage:
		return t.Image.Lookup(uv)
	default:
		return t.Color
	}
}
