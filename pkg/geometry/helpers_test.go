package geometry

import (
	"math"

	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/material"
)

var testMaterial = material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))

func vecClose(a, b core.Vec3) bool {
	return a.Subtract(b).Length() < 1e-9
}

func floatClose(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
