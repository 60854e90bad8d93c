package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/df07/rayo/pkg/core"
)

func TestPixelStats_AddSample(t *testing.T) {
	var ps PixelStats
	if got := ps.GetColor(); got != core.Black {
		t.Errorf("Expected black for an unsampled pixel, got %v", got)
	}

	ps.AddSample(core.NewColor(1, 0, 0.5))
	ps.AddSample(core.NewColor(0, 1, 0.5))

	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
	if got := ps.GetColor(); got != core.NewColor(0.5, 0.5, 0.5) {
		t.Errorf("Expected average (0.5, 0.5, 0.5), got %v", got)
	}
}

func TestCalculateAverageLuminance(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 255})

	// (0.299 + 0.587 + 0.114 + 0) / 4
	avgLum := CalculateAverageLuminance(img)
	expected := 0.25
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminance %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})

	avgLum := CalculateAverageLuminance(img)
	if avgLum < 0.9999 || avgLum > 1.0001 {
		t.Errorf("Expected average luminance 1.0, got %f", avgLum)
	}
}

func TestCalculateAverageLuminance_Empty(t *testing.T) {
	if got := CalculateAverageLuminance(image.NewRGBA(image.Rect(0, 0, 0, 0))); got != 0 {
		t.Errorf("Expected 0 for an empty image, got %f", got)
	}
}
