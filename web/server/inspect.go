package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/geometry"
	"github.com/df07/rayo/pkg/integrator"
	"github.com/df07/rayo/pkg/material"
	"github.com/df07/rayo/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult describes the first object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *material.HitRecord
	Shape     geometry.Shape // nil when nothing was hit
}

// inspectPixel casts a ray through the center of pixel (pixelX, pixelY), row 0
// at the top, and returns the closest shape it hits
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	cameraConfig := sceneObj.CameraConfig
	cameraConfig.AspectRatio = float64(width) / float64(height)
	cameraConfig.Aperture = 0 // No lens jitter for inspection
	camera := geometry.NewCamera(cameraConfig)

	s := (float64(pixelX) + 0.5) / float64(width)
	t := (float64(height-1-pixelY) + 0.5) / float64(height)
	ray := camera.GetRay(s, t, core.NewSeededSampler(0))

	var closest InspectResult
	for _, shape := range sceneObj.Shapes {
		hit, isHit := shape.Hit(ray, integrator.DefaultTMin, math.Inf(1))
		if !isHit {
			continue
		}
		if !closest.Hit || hit.T < closest.HitRecord.T {
			closest = InspectResult{Hit: true, HitRecord: hit, Shape: shape}
		}
	}
	return closest
}

// extractMaterialInfo describes a material by kind
func extractMaterialInfo(mat *material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch mat.Kind {
	case material.KindLambertian:
		properties["albedo"] = extractTextureInfo(mat.Texture)
	case material.KindMetal:
		properties["albedo"] = extractTextureInfo(mat.Texture)
		properties["fuzz"] = mat.Fuzz
	case material.KindDielectric:
		properties["refractiveIndex"] = mat.IOR
		properties["tint"] = extractTextureInfo(mat.Texture)
	case material.KindDiffuseLight:
		properties["emission"] = extractTextureInfo(mat.Texture)
	}
	return mat.Kind.String(), properties
}

// extractTextureInfo describes a texture by kind
func extractTextureInfo(tex material.Texture) map[string]interface{} {
	info := map[string]interface{}{"type": tex.Kind.String()}
	switch tex.Kind {
	case material.TextureConstant:
		info["color"] = colorArray(tex.Color)
		info["hex"] = hexColor(tex.Color)
	case material.TextureCheckered:
		info["even"] = colorArray(tex.Even)
		info["odd"] = colorArray(tex.Odd)
		info["scale"] = tex.Scale
	case material.TextureImage:
		if tex.Image != nil {
			info["width"] = tex.Image.Width
			info["height"] = tex.Image.Height
		}
	}
	return info
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		if geom.Radius < 0 {
			properties["hollow"] = true
		}
		return "sphere", properties

	case *geometry.AxisAlignedBox:
		properties["min"] = vecArray(geom.Min)
		properties["max"] = vecArray(geom.Max)
		return "box", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = defaultScene
	}

	width, err := parseIntParam(query, "width", 400, minImageSize, maxImageSize)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	height, err := parseIntParam(query, "height", 400, minImageSize, maxImageSize)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	sceneObj, err := s.createScene(sceneName, float64(width)/float64(height))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result := inspectPixel(sceneObj, width, height, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecArray(result.HitRecord.Point),
		Normal:       vecArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func colorArray(c core.Color) [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}

// hexColor formats a color as #rrggbb, clamping each channel to [0, 1]
func hexColor(c core.Color) string {
	channel := func(v float64) int { return int(math.Max(0, math.Min(1, v)) * 255) }
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}
