package integrator

import (
	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray
	RayColor(ray core.Ray, scn *scene.Scene, sampler core.Sampler) core.Color
}
