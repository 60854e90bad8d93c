package geometry

import (
	"math"

	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/material"
)

// AxisAlignedBox is a solid box bounded by min and max corners
type AxisAlignedBox struct {
	Min      core.Vec3
	Max      core.Vec3
	Material material.Material
}

// NewAxisAlignedBox creates a box spanning the two corners, in any order
func NewAxisAlignedBox(a, b core.Vec3, mat material.Material) *AxisAlignedBox {
	return &AxisAlignedBox{
		Min:      core.NewVec3(math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)),
		Max:      core.NewVec3(math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)),
		Material: mat,
	}
}

// NewAxisAlignedBoxFromCenter creates a box from its center and half-extents
func NewAxisAlignedBoxFromCenter(center, halfSize core.Vec3, mat material.Material) *AxisAlignedBox {
	return NewAxisAlignedBox(center.Subtract(halfSize), center.Add(halfSize), mat)
}

// Hit tests the ray against the three slabs of the box. Zero direction
// components rely on IEEE infinities from the division.
func (b *AxisAlignedBox) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	tIn := math.Inf(-1)
	tOut := math.Inf(1)
	inAxis, outAxis := -1, -1

	for axis := 0; axis < 3; axis++ {
		invD := 1.0 / ray.Direction.Axis(axis)
		origin := ray.Origin.Axis(axis)
		t0 := (b.Min.Axis(axis) - origin) * invD
		t1 := (b.Max.Axis(axis) - origin) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}

		if t0 > tIn {
			tIn, inAxis = t0, axis
		}
		if t1 < tOut {
			tOut, outAxis = t1, axis
		}
	}

	if tIn > tOut || tOut < 0 {
		return nil, false
	}

	// Entering hit first, else the exit hit when the origin is inside the box
	t, axis, entering := tIn, inAxis, true
	if t <= tMin || t >= tMax {
		t, axis, entering = tOut, outAxis, false
		if t <= tMin || t >= tMax {
			return nil, false
		}
	}
	if axis < 0 {
		return nil, false
	}

	point := ray.At(t)
	hitRecord := &material.HitRecord{
		T:        t,
		Point:    point,
		Material: &b.Material,
	}
	hitRecord.SetFaceNormal(ray, b.faceNormal(ray, axis, entering))
	hitRecord.UV = b.faceUV(point, axis)

	return hitRecord, true
}

// faceNormal returns the outward normal of the face on axis that the ray enters or exits through
func (b *AxisAlignedBox) faceNormal(ray core.Ray, axis int, entering bool) core.Vec3 {
	sign := 1.0
	// A ray travelling +axis enters through the min face and exits through the max face
	if (ray.Direction.Axis(axis) > 0) == entering {
		sign = -1.0
	}

	switch axis {
	case 0:
		return core.NewVec3(sign, 0, 0)
	case 1:
		return core.NewVec3(0, sign, 0)
	default:
		return core.NewVec3(0, 0, sign)
	}
}

// faceUV maps the hit point across the two axes spanning the hit face to [0, 1]
func (b *AxisAlignedBox) faceUV(point core.Vec3, axis int) core.Vec2 {
	uAxis, vAxis := (axis+1)%3, (axis+2)%3
	u := (point.Axis(uAxis) - b.Min.Axis(uAxis)) / (b.Max.Axis(uAxis) - b.Min.Axis(uAxis))
	v := (point.Axis(vAxis) - b.Min.Axis(vAxis)) / (b.Max.Axis(vAxis) - b.Min.Axis(vAxis))
	return core.NewVec2(u, v)
}
