package scene

import (
	"math/rand"

	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/geometry"
	"github.com/df07/rayo/pkg/material"
)

// NewDefaultScene creates three large spheres on a checkered ground surrounded by
// a field of small random spheres. The field is generated from a fixed seed.
func NewDefaultScene() *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	s := NewScene("default", cameraConfig)
	s.SamplingConfig = SamplingConfig{SamplesPerPixel: 100, MaxDepth: 30}

	checker := material.NewCheckeredTexture(core.NewColor(0.9, 0.9, 0.9), core.NewColor(0.2, 0.3, 0.1), 10)
	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewTexturedLambertian(checker)))

	random := rand.New(rand.NewSource(42))
	sampler := core.NewRandomSampler(random)
	anchor := core.NewVec3(4, 0.2, 0)

	for a := -5; a < 5; a++ {
		for b := -5; b < 5; b++ {
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())
			if center.Subtract(anchor).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch choose := random.Float64(); {
			case choose < 0.8:
				albedo := core.RandomInRange(0, 1, sampler).MultiplyVec(core.RandomInRange(0, 1, sampler))
				mat = material.NewLambertian(core.NewColor(albedo.X, albedo.Y, albedo.Z))
			case choose < 0.95:
				albedo := core.RandomInRange(0.5, 1, sampler)
				mat = material.NewMetal(core.NewColor(albedo.X, albedo.Y, albedo.Z), 0.5*random.Float64())
			default:
				mat = material.NewDielectric(1.5)
			}
			s.Add(geometry.NewSphere(center, 0.2, mat))
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewColor(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewColor(0.7, 0.6, 0.5), 0.0)),
	)

	return s
}

// NewSpheresScene creates the small three-sphere scene: a diffuse center sphere,
// a hollow glass sphere and a fuzzy metal sphere on a large checkered sphere.
func NewSpheresScene() *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(-2, 2, 1),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0.0,
		FocusDistance: 3.4,
	}

	s := NewScene("spheres", cameraConfig)
	s.SamplingConfig = SamplingConfig{SamplesPerPixel: 100, MaxDepth: 30}

	ground := material.NewTexturedLambertian(
		material.NewCheckeredTexture(core.NewColor(0.8, 0.8, 0.0), core.NewColor(0.1, 0.1, 0.1), 4))
	center := material.NewLambertian(core.NewColor(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	gold := material.NewMetal(core.NewColor(0.8, 0.6, 0.2), 0.3)

	s.Add(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, center),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, glass),
		// Negative radius flips the normal, making the glass sphere hollow
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.45, glass),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, gold),
	)

	return s
}

// NewEmptyScene creates a scene with no shapes. Every ray sees the sky.
func NewEmptyScene() *Scene {
	return NewScene("empty", geometry.DefaultCameraConfig())
}
