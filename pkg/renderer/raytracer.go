package renderer

import (
	"image/color"
	"math"

	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/geometry"
	"github.com/df07/rayo/pkg/integrator"
	"github.com/df07/rayo/pkg/scene"
)

// maxChannel is the upper clamp applied after gamma correction, so 1.0 maps to 255 and not 256
const maxChannel = 0.999

// SamplePixel traces one camera ray through a random point inside pixel (x, y)
// and returns its linear radiance. Row 0 is the top of the image.
func SamplePixel(x, y, width, height int, cam *geometry.Camera, scn *scene.Scene, integ integrator.Integrator, sampler core.Sampler) core.Color {
	jitter := sampler.Get2D()
	s := (float64(x) + jitter.X) / float64(width)
	t := (float64(height-1-y) + jitter.Y) / float64(height)

	ray := cam.GetRay(s, t, sampler)
	return integ.RayColor(ray, scn, sampler)
}

// PixelColor renders a single pixel: it averages cfg.SamplesPerPixel jittered samples
// and tone maps the result. It reads only the camera and scene, so pixels can be
// computed independently and concurrently as long as each caller owns its sampler.
func PixelColor(x, y, width, height int, cam *geometry.Camera, scn *scene.Scene, cfg scene.SamplingConfig, sampler core.Sampler) color.RGBA {
	integ := integrator.NewPathTracingIntegrator(cfg.MaxDepth)

	var ps PixelStats
	for i := 0; i < cfg.SamplesPerPixel; i++ {
		ps.AddSample(SamplePixel(x, y, width, height, cam, scn, integ, sampler))
	}

	return ToneMap(ps.GetColor())
}

// ToneMap converts a linear color to 8-bit RGBA: gamma 2.0, clamp to [0, 0.999], scale by 256.
func ToneMap(c core.Color) color.RGBA {
	return color.RGBA{
		R: toneMapChannel(c.R),
		G: toneMapChannel(c.G),
		B: toneMapChannel(c.B),
		A: 255,
	}
}

func toneMapChannel(v float64) uint8 {
	v = math.Sqrt(v)
	// Negative and NaN inputs both land here
	if !(v > 0) {
		return 0
	}
	if v > maxChannel {
		v = maxChannel
	}
	return uint8(256 * v)
}
