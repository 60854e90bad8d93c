package scene

import (
	"github.com/df07/rayo/pkg/core"
)

// BackgroundKind selects how escaping rays are colored
type BackgroundKind int

const (
	BackgroundSolid    BackgroundKind = iota // Uniform color, black when zero
	BackgroundGradient                       // Vertical blend by ray direction
)

// Background is the radiance returned for rays that hit nothing.
// The zero value is a black background.
type Background struct {
	Kind   BackgroundKind
	Color  core.Color // BackgroundSolid
	Top    core.Color // BackgroundGradient, straight up
	Bottom core.Color // BackgroundGradient, straight down
}

// NewSkyBackground returns the white-to-blue sky gradient
func NewSkyBackground() Background {
	return NewGradientBackground(core.NewColor(0.5, 0.7, 1.0), core.NewColor(1.0, 1.0, 1.0))
}

// NewBlackBackground returns a background that contributes no light
func NewBlackBackground() Background {
	return NewSolidBackground(core.Black)
}

// NewSolidBackground returns a uniform background
func NewSolidBackground(color core.Color) Background {
	return Background{Kind: BackgroundSolid, Color: color}
}

// NewGradientBackground returns a background blending bottom to top by ray elevation
func NewGradientBackground(top, bottom core.Color) Background {
	return Background{Kind: BackgroundGradient, Top: top, Bottom: bottom}
}

// Radiance returns the background color seen along the ray
func (b Background) Radiance(ray core.Ray) core.Color {
	if b.Kind != BackgroundGradient {
		return b.Color
	}

	// Map unit direction y from [-1,1] to [0,1]
	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)

	return b.Bottom.Lerp(b.Top, t)
}
