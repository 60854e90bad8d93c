package scene

import (
	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/geometry"
	"github.com/df07/rayo/pkg/material"
)

// Scene contains all the elements needed for rendering.
// Shapes are read-only once rendering starts.
type Scene struct {
	Name           string
	CameraConfig   geometry.CameraConfig
	Shapes         []geometry.Shape // Objects in the scene, in insertion order
	Background     Background       // Radiance for rays that escape the scene
	SamplingConfig SamplingConfig   // Recommended settings, unset fields fall back to render defaults
}

// UnsetDepth marks a scene without a recommended max depth. Zero is a valid depth.
const UnsetDepth = -1

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth, UnsetDepth for no recommendation
}

// NewScene creates an empty scene with a sky background
func NewScene(name string, cameraConfig geometry.CameraConfig) *Scene {
	return &Scene{
		Name:           name,
		CameraConfig:   cameraConfig,
		Shapes:         make([]geometry.Shape, 0),
		Background:     NewSkyBackground(),
		SamplingConfig: SamplingConfig{MaxDepth: UnsetDepth},
	}
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// Hit returns the closest intersection over all shapes with t in (tMin, tMax).
// Every shape is tested against the full range; on equal t the earlier shape wins.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closest *material.HitRecord

	for _, shape := range s.Shapes {
		hit, isHit := shape.Hit(ray, tMin, tMax)
		if !isHit {
			continue
		}
		if closest == nil || hit.T < closest.T {
			closest = hit
		}
	}

	return closest, closest != nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}
