package material

import (
	"math"

	"github.com/df07/rayo/pkg/core"
)

// fixedSampler returns the same values on every call
type fixedSampler struct {
	value   float64
	vector3 core.Vec3
}

func (f fixedSampler) Get1D() float64   { return f.value }
func (f fixedSampler) Get2D() core.Vec2 { return core.NewVec2(f.value, f.value) }
func (f fixedSampler) Get3D() core.Vec3 { return f.vector3 }

func vecClose(a, b core.Vec3) bool {
	return a.Subtract(b).Length() < 1e-9
}

func floatClose(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func newHit(normal core.Vec3, front bool) *HitRecord {
	return &HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    normal,
		T:         1.0,
		FrontFace: front,
	}
}
