package material

import (
	"github.com/df07/rayo/pkg/core"
)

// scatterLambertian sends the ray toward normal + random unit vector
func (m *Material) scatterLambertian(hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	direction := hit.Normal.Add(core.RandomUnit(sampler))

	// Catch degenerate scatter direction
	if direction.NearZero() {
		direction = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: m.Texture.Value(hit.UV, hit.Point),
	}, true
}
