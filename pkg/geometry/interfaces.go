package geometry

import (
	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// Hit reports the intersection with parameter strictly inside (tMin, tMax).
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}
