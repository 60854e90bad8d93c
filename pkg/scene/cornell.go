package scene

import (
	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/geometry"
	"github.com/df07/rayo/pkg/material"
)

// cornellWall is the thickness of the box walls
const cornellWall = 10.0

// NewCornellScene creates a classic Cornell box built from axis-aligned boxes and lit
// only by an emissive ceiling panel
func NewCornellScene() *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(278, 278, -800), // Position camera outside the box looking in
		LookAt:        core.NewVec3(278, 278, 0),    // Look at the center of the box
		Up:            core.NewVec3(0, 1, 0),
		VFov:          40.0,
		AspectRatio:   1.0,
		Aperture:      0.0,
		FocusDistance: 800.0,
	}

	s := NewScene("cornell", cameraConfig)
	s.Background = NewBlackBackground()
	s.SamplingConfig = SamplingConfig{SamplesPerPixel: 200, MaxDepth: 40}

	white := material.NewLambertian(core.NewColor(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewColor(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewColor(0.12, 0.45, 0.15))
	light := material.NewDiffuseLight(core.NewColor(15, 15, 15))

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0

	s.Add(
		// Floor, ceiling and back wall
		geometry.NewAxisAlignedBox(core.NewVec3(0, -cornellWall, 0), core.NewVec3(boxSize, 0, boxSize), white),
		geometry.NewAxisAlignedBox(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, boxSize+cornellWall, boxSize), white),
		geometry.NewAxisAlignedBox(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, boxSize, boxSize+cornellWall), white),
		// Side walls
		geometry.NewAxisAlignedBox(core.NewVec3(boxSize, 0, 0), core.NewVec3(boxSize+cornellWall, boxSize, boxSize), green),
		geometry.NewAxisAlignedBox(core.NewVec3(-cornellWall, 0, 0), core.NewVec3(0, boxSize, boxSize), red),
		// Ceiling light panel
		geometry.NewAxisAlignedBox(core.NewVec3(213, boxSize-1, 227), core.NewVec3(343, boxSize, 332), light),
		// Tall and short blocks
		geometry.NewAxisAlignedBox(core.NewVec3(265, 0, 295), core.NewVec3(430, 330, 460), white),
		geometry.NewAxisAlignedBox(core.NewVec3(130, 0, 65), core.NewVec3(295, 165, 230), white),
		// Glass sphere resting on the short block
		geometry.NewSphere(core.NewVec3(212.5, 240, 147.5), 75, material.NewDielectric(1.5)),
	)

	return s
}

// NewBoxesScene creates a row of boxes, one per material kind, under the sky
func NewBoxesScene() *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(0, 3, 8),
		LookAt:        core.NewVec3(0, 0.5, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          35.0,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0.05,
		FocusDistance: 8.5,
	}

	s := NewScene("boxes", cameraConfig)
	s.SamplingConfig = SamplingConfig{SamplesPerPixel: 100, MaxDepth: 30}

	floor := material.NewTexturedLambertian(
		material.NewCheckeredTexture(core.NewColor(0.9, 0.9, 0.9), core.NewColor(0.3, 0.3, 0.35), 3))

	s.Add(
		geometry.NewAxisAlignedBox(core.NewVec3(-20, -1, -20), core.NewVec3(20, 0, 20), floor),
		geometry.NewAxisAlignedBoxFromCenter(core.NewVec3(-3, 0.5, 0), core.NewVec3(0.5, 0.5, 0.5),
			material.NewLambertian(core.NewColor(0.8, 0.3, 0.3))),
		geometry.NewAxisAlignedBoxFromCenter(core.NewVec3(-1, 0.75, 0), core.NewVec3(0.5, 0.75, 0.5),
			material.NewMetal(core.NewColor(0.8, 0.8, 0.9), 0.05)),
		geometry.NewAxisAlignedBoxFromCenter(core.NewVec3(1, 0.5, 0), core.NewVec3(0.5, 0.5, 0.5),
			material.NewDielectric(1.5)),
		geometry.NewAxisAlignedBoxFromCenter(core.NewVec3(3, 0.25, 0), core.NewVec3(0.5, 0.25, 0.5),
			material.NewDiffuseLight(core.NewColor(4, 3, 2))),
	)

	return s
}
