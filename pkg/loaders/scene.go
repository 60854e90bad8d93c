package loaders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/geometry"
	"github.com/df07/rayo/pkg/material"
	"github.com/df07/rayo/pkg/scene"
	"sigs.k8s.io/yaml"
)

var (
	ErrInvalidScene      = errors.New("invalid scene description")
	ErrUnknownMaterial   = errors.New("unknown material type")
	ErrUnknownTexture    = errors.New("unknown texture type")
	ErrUnknownBackground = errors.New("unknown background type")
)

// SceneFile is the on-disk scene description. YAML and JSON share the same field names.
type SceneFile struct {
	Name       string          `json:"name,omitempty"`
	Camera     CameraSpec      `json:"camera"`
	Background *BackgroundSpec `json:"background,omitempty"`
	Samples    int             `json:"samples,omitempty"` // Recommended samples per pixel
	Depth      *int            `json:"depth,omitempty"`   // Recommended max depth, 0 allowed
	Spheres    []SphereSpec    `json:"spheres,omitempty"`
	Boxes      []BoxSpec       `json:"boxes,omitempty"`
}

type CameraSpec struct {
	LookFrom    []float64 `json:"lookfrom,omitempty"`
	LookAt      []float64 `json:"lookat,omitempty"`
	VUp         []float64 `json:"vup,omitempty"`
	VFov        float64   `json:"vfov,omitempty"`
	FocalLength float64   `json:"focal-length,omitempty"` // Defaults to the lookfrom-lookat distance
	Aperture    float64   `json:"aperture,omitempty"`
}

type BackgroundSpec struct {
	Type   string    `json:"type"`
	Color  []float64 `json:"color,omitempty"`
	Top    []float64 `json:"top,omitempty"`
	Bottom []float64 `json:"bottom,omitempty"`
}

type SphereSpec struct {
	Center   []float64    `json:"center"`
	Radius   float64      `json:"radius"`
	Material MaterialSpec `json:"material"`
}

type BoxSpec struct {
	Min      []float64    `json:"min"`
	Max      []float64    `json:"max"`
	Material MaterialSpec `json:"material"`
}

type MaterialSpec struct {
	Type   string       `json:"type"`
	Albedo *TextureSpec `json:"albedo,omitempty"`
	Fuzz   float64      `json:"fuzz,omitempty"`
	IOR    float64      `json:"ior,omitempty"`
	Emit   *TextureSpec `json:"emit,omitempty"`
}

// TextureSpec is either a bare [r, g, b] list or an object with a type
type TextureSpec struct {
	Type  string    `json:"type"`
	Color []float64 `json:"color,omitempty"`
	Even  []float64 `json:"even,omitempty"`
	Odd   []float64 `json:"odd,omitempty"`
	Scale float64   `json:"scale,omitempty"`
	Path  string    `json:"path,omitempty"`
}

// UnmarshalJSON accepts the [r, g, b] shorthand for constant textures
func (ts *TextureSpec) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var rgb []float64
		if err := json.Unmarshal(trimmed, &rgb); err != nil {
			return err
		}
		*ts = TextureSpec{Type: "constant", Color: rgb}
		return nil
	}

	// Alias drops the method set so decoding does not recurse
	type plain TextureSpec
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*ts = TextureSpec(p)
	return nil
}

const (
	defaultVFov        = 90.0
	defaultIOR         = 1.5
	defaultCheckerSize = 10.0
)

var defaultAlbedo = core.NewColor(0.5, 0.5, 0.5)

// LoadScene reads a YAML or JSON scene file. aspectRatio sets the camera's width/height ratio.
func LoadScene(path string, aspectRatio float64) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("while reading scene file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sc, err := ParseScene(data, name, filepath.Dir(path), aspectRatio)
	if err != nil {
		return nil, fmt.Errorf("while loading scene %s: %w", path, err)
	}
	return sc, nil
}

// LoadSceneByID resolves a scene ID to a scene. IDs of the form "file:<name>"
// refer to a scene file discovered in scenesDir, anything else to a built-in.
func LoadSceneByID(id, scenesDir string, aspectRatio float64) (*scene.Scene, error) {
	fileName, ok := strings.CutPrefix(id, scene.TypeFile+":")
	if !ok {
		sc, err := scene.Lookup(id)
		if err != nil {
			return nil, err
		}
		sc.CameraConfig.AspectRatio = aspectRatio
		return sc, nil
	}

	files, err := scene.ListSceneFiles(scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == id {
			return LoadScene(info.FilePath, aspectRatio)
		}
	}
	return nil, fmt.Errorf("%w: no scene file %q in %s", scene.ErrUnknownScene, fileName, scenesDir)
}

// ParseScene builds a scene from a YAML or JSON description. Relative image
// texture paths are resolved against baseDir.
func ParseScene(data []byte, name, baseDir string, aspectRatio float64) (*scene.Scene, error) {
	var file SceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}

	b := &sceneBuilder{
		baseDir: baseDir,
		images:  make(map[string]*material.ImageData),
	}
	return b.build(&file, name, aspectRatio)
}

// sceneBuilder converts a parsed SceneFile, decoding each image texture once
type sceneBuilder struct {
	baseDir string
	images  map[string]*material.ImageData
}

func (b *sceneBuilder) build(file *SceneFile, name string, aspectRatio float64) (*scene.Scene, error) {
	if file.Name != "" {
		name = file.Name
	}

	cameraConfig, err := buildCamera(file.Camera, aspectRatio)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	sc := scene.NewScene(name, cameraConfig)
	sc.SamplingConfig.SamplesPerPixel = file.Samples
	if file.Depth != nil {
		if *file.Depth < 0 {
			return nil, fmt.Errorf("%w: depth must not be negative, got %d", ErrInvalidScene, *file.Depth)
		}
		sc.SamplingConfig.MaxDepth = *file.Depth
	}

	if file.Background != nil {
		background, err := buildBackground(*file.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		sc.Background = background
	}

	for i, spec := range file.Spheres {
		center, err := vec3(spec.Center, "center")
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		mat, err := b.buildMaterial(spec.Material)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		sc.Add(geometry.NewSphere(center, spec.Radius, mat))
	}

	for i, spec := range file.Boxes {
		lo, err := vec3(spec.Min, "min")
		if err != nil {
			return nil, fmt.Errorf("box %d: %w", i, err)
		}
		hi, err := vec3(spec.Max, "max")
		if err != nil {
			return nil, fmt.Errorf("box %d: %w", i, err)
		}
		mat, err := b.buildMaterial(spec.Material)
		if err != nil {
			return nil, fmt.Errorf("box %d: %w", i, err)
		}
		sc.Add(geometry.NewAxisAlignedBox(lo, hi, mat))
	}

	return sc, nil
}

func buildCamera(spec CameraSpec, aspectRatio float64) (geometry.CameraConfig, error) {
	config := geometry.DefaultCameraConfig()
	config.AspectRatio = aspectRatio

	var err error
	if spec.LookFrom != nil {
		if config.Center, err = vec3(spec.LookFrom, "lookfrom"); err != nil {
			return config, err
		}
	}
	if spec.LookAt != nil {
		if config.LookAt, err = vec3(spec.LookAt, "lookat"); err != nil {
			return config, err
		}
	}
	if spec.VUp != nil {
		if config.Up, err = vec3(spec.VUp, "vup"); err != nil {
			return config, err
		}
	}

	config.VFov = defaultVFov
	if spec.VFov != 0 {
		config.VFov = spec.VFov
	}
	config.Aperture = spec.Aperture

	config.FocusDistance = spec.FocalLength
	if config.FocusDistance == 0 {
		config.FocusDistance = config.Center.Subtract(config.LookAt).Length()
	}
	if config.FocusDistance <= 0 {
		return config, fmt.Errorf("%w: lookfrom and lookat coincide", ErrInvalidScene)
	}

	return config, nil
}

func buildBackground(spec BackgroundSpec) (scene.Background, error) {
	switch strings.ToLower(spec.Type) {
	case "", "sky":
		return scene.NewSkyBackground(), nil
	case "black":
		return scene.NewBlackBackground(), nil
	case "solid":
		c, err := colorValue(spec.Color, "color")
		if err != nil {
			return scene.Background{}, err
		}
		return scene.NewSolidBackground(c), nil
	case "gradient":
		top, err := colorValue(spec.Top, "top")
		if err != nil {
			return scene.Background{}, err
		}
		bottom, err := colorValue(spec.Bottom, "bottom")
		if err != nil {
			return scene.Background{}, err
		}
		return scene.NewGradientBackground(top, bottom), nil
	default:
		return scene.Background{}, fmt.Errorf("%w: %q", ErrUnknownBackground, spec.Type)
	}
}

func (b *sceneBuilder) buildMaterial(spec MaterialSpec) (material.Material, error) {
	switch strings.ToLower(spec.Type) {
	case "lambertian":
		albedo, err := b.textureOrDefault(spec.Albedo)
		if err != nil {
			return material.Material{}, fmt.Errorf("albedo: %w", err)
		}
		return material.NewTexturedLambertian(albedo), nil
	case "metal":
		albedo, err := b.textureOrDefault(spec.Albedo)
		if err != nil {
			return material.Material{}, fmt.Errorf("albedo: %w", err)
		}
		return material.NewTexturedMetal(albedo, spec.Fuzz), nil
	case "dielectric":
		ior := spec.IOR
		if ior == 0 {
			ior = defaultIOR
		}
		if spec.Albedo == nil {
			return material.NewDielectric(ior), nil
		}
		tint, err := b.buildTexture(*spec.Albedo)
		if err != nil {
			return material.Material{}, fmt.Errorf("albedo: %w", err)
		}
		return material.NewTintedDielectric(ior, tint), nil
	case "diffuse-light", "light":
		if spec.Emit == nil {
			return material.Material{}, fmt.Errorf("%w: diffuse-light needs emit", ErrInvalidScene)
		}
		emit, err := b.buildTexture(*spec.Emit)
		if err != nil {
			return material.Material{}, fmt.Errorf("emit: %w", err)
		}
		return material.NewTexturedDiffuseLight(emit), nil
	default:
		return material.Material{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, spec.Type)
	}
}

func (b *sceneBuilder) textureOrDefault(spec *TextureSpec) (material.Texture, error) {
	if spec == nil {
		return material.NewConstantTexture(defaultAlbedo), nil
	}
	return b.buildTexture(*spec)
}

func (b *sceneBuilder) buildTexture(spec TextureSpec) (material.Texture, error) {
	switch strings.ToLower(spec.Type) {
	case "constant", "":
		c, err := colorValue(spec.Color, "color")
		if err != nil {
			return material.Texture{}, err
		}
		return material.NewConstantTexture(c), nil
	case "checkered", "checker":
		even, err := colorValue(spec.Even, "even")
		if err != nil {
			return material.Texture{}, err
		}
		odd, err := colorValue(spec.Odd, "odd")
		if err != nil {
			return material.Texture{}, err
		}
		scale := spec.Scale
		if scale == 0 {
			scale = defaultCheckerSize
		}
		return material.NewCheckeredTexture(even, odd, scale), nil
	case "image":
		data, err := b.loadImage(spec.Path)
		if err != nil {
			return material.Texture{}, err
		}
		return material.NewImageTexture(data), nil
	default:
		return material.Texture{}, fmt.Errorf("%w: %q", ErrUnknownTexture, spec.Type)
	}
}

func (b *sceneBuilder) loadImage(path string) (*material.ImageData, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: image texture needs a path", ErrInvalidScene)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.baseDir, path)
	}
	if data, ok := b.images[path]; ok {
		return data, nil
	}

	data, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	b.images[path] = data
	return data, nil
}

func vec3(values []float64, field string) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%w: %s must have 3 components, got %d", ErrInvalidScene, field, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

func colorValue(values []float64, field string) (core.Color, error) {
	v, err := vec3(values, field)
	if err != nil {
		return core.Color{}, err
	}
	return core.NewColor(v.X, v.Y, v.Z), nil
}
