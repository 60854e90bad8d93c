package material

import (
	"github.com/df07/rayo/pkg/core"
)

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray   // The continuation ray, starting at the hit point
	Attenuation core.Color // Color multiplier for light arriving along Scattered
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit surface normal, always facing against the incoming ray
	T         float64   // Parameter t along the ray
	UV        core.Vec2 // Surface coordinates for image textures
	FrontFace bool      // Whether ray hit the outside of the surface
	Material  *Material // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal must have unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
