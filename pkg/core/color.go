package core

// Color is a linear RGB radiance or reflectance triple. Components are unbounded
// until tone mapping.
type Color struct {
	R, G, B float64
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Black is the zero color
var Black = Color{}

// White is unit reflectance in every channel
var White = Color{1, 1, 1}

// Add returns the component-wise sum
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Multiply returns the component-wise product (attenuation)
func (c Color) Multiply(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Scale returns the color scaled by a scalar
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Lerp blends from c (t=0) to other (t=1)
func (c Color) Lerp(other Color, t float64) Color {
	return c.Scale(1 - t).Add(other.Scale(t))
}

// Luminance returns the perceptual luminance of the color
// Uses standard luminance weights: 0.299*R + 0.587*G + 0.114*B
func (c Color) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}
