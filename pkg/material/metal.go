package material

import (
	"github.com/df07/rayo/pkg/core"
)

// scatterMetal reflects about the normal and perturbs by fuzz
func (m *Material) scatterMetal(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := reflectVector(rayIn.Direction.Normalize(), hit.Normal)
	direction := reflected.Add(core.RandomUnit(sampler).Multiply(m.Fuzz))

	// Fuzz can push the ray below the surface, which absorbs it
	if direction.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: m.Texture.Value(hit.UV, hit.Point),
	}, true
}

// reflectVector calculates the reflection of a vector v off a surface with normal n
func reflectVector(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
