package integrator

import (
	"math"

	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/scene"
)

// DefaultTMin is the minimum hit distance, which keeps continuation rays from
// re-hitting the surface they start on
const DefaultTMin = 0.1

// PathTracingIntegrator implements unidirectional path tracing with a fixed bounce limit
type PathTracingIntegrator struct {
	MaxDepth int     // Deepest bounce index that is still evaluated
	TMin     float64 // Minimum accepted hit distance
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		MaxDepth: maxDepth,
		TMin:     DefaultTMin,
	}
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scn *scene.Scene, sampler core.Sampler) core.Color {
	return pt.Trace(ray, scn, 0, sampler)
}

// Trace estimates radiance along ray, starting at bounce index depth.
// Returns black once depth exceeds MaxDepth, so MaxDepth = 0 still evaluates one hit.
// At each bounce it adds the emitted light and continues along the scattered ray,
// weighting later contributions by the running product of attenuations.
func (pt *PathTracingIntegrator) Trace(ray core.Ray, scn *scene.Scene, depth int, sampler core.Sampler) core.Color {
	radiance := core.Black
	throughput := core.White

	for ; depth <= pt.MaxDepth; depth++ {
		hit, isHit := scn.Hit(ray, pt.TMin, math.Inf(1))
		if !isHit {
			return radiance.Add(throughput.Multiply(scn.Background.Radiance(ray)))
		}

		emitted := hit.Material.Emitted(hit)
		radiance = radiance.Add(throughput.Multiply(emitted))

		scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
		if !didScatter {
			return radiance
		}

		throughput = throughput.Multiply(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Bounce limit reached, no more light is gathered
	return radiance
}

// Trace is a convenience wrapper that traces with the default minimum hit distance
func Trace(ray core.Ray, scn *scene.Scene, depth, maxDepth int, sampler core.Sampler) core.Color {
	return NewPathTracingIntegrator(maxDepth).Trace(ray, scn, depth, sampler)
}
