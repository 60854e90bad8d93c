package loaders

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/geometry"
	"github.com/df07/rayo/pkg/material"
	"github.com/df07/rayo/pkg/scene"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const testSceneYAML = `
# Scene: Test
camera:
  lookfrom: [13, 2, 3]
  lookat: [0, 0, 0]
  vup: [0, 1, 0]
  vfov: 20
  focal-length: 10
  aperture: 0.1
background:
  type: gradient
  top: [0.5, 0.7, 1.0]
  bottom: [1, 1, 1]
samples: 64
depth: 12
spheres:
  - center: [0, -1000, 0]
    radius: 1000
    material:
      type: lambertian
      albedo: {type: checkered, even: [0.2, 0.3, 0.1], odd: [0.9, 0.9, 0.9], scale: 10}
  - center: [0, 1, 0]
    radius: 1
    material: {type: dielectric, ior: 1.5}
  - center: [4, 1, 0]
    radius: 1
    material: {type: metal, albedo: [0.7, 0.6, 0.5], fuzz: 0}
boxes:
  - min: [-1, 0, -1]
    max: [1, 2, 1]
    material: {type: diffuse-light, emit: [4, 4, 4]}
`

func TestParseScene_YAML(t *testing.T) {
	sc, err := ParseScene([]byte(testSceneYAML), "test", ".", 16.0/9.0)
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}

	if sc.Name != "test" {
		t.Errorf("Expected name 'test', got %q", sc.Name)
	}
	if sc.GetPrimitiveCount() != 4 {
		t.Fatalf("Expected 4 primitives, got %d", sc.GetPrimitiveCount())
	}

	wantCamera := geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0.1,
		FocusDistance: 10,
	}
	if diff := cmp.Diff(wantCamera, sc.CameraConfig); diff != "" {
		t.Errorf("Camera config mismatch (-want +got):\n%s", diff)
	}

	wantBackground := scene.NewGradientBackground(core.NewColor(0.5, 0.7, 1.0), core.NewColor(1, 1, 1))
	if diff := cmp.Diff(wantBackground, sc.Background); diff != "" {
		t.Errorf("Background mismatch (-want +got):\n%s", diff)
	}

	if sc.SamplingConfig != (scene.SamplingConfig{SamplesPerPixel: 64, MaxDepth: 12}) {
		t.Errorf("Unexpected sampling config %+v", sc.SamplingConfig)
	}

	ground := sc.Shapes[0].(*geometry.Sphere)
	if ground.Material.Kind != material.KindLambertian || ground.Material.Texture.Kind != material.TextureCheckered {
		t.Errorf("Expected checkered lambertian ground, got %v with %v", ground.Material.Kind, ground.Material.Texture.Kind)
	}
	if ground.Radius != 1000 {
		t.Errorf("Expected ground radius 1000, got %f", ground.Radius)
	}

	glass := sc.Shapes[1].(*geometry.Sphere)
	if glass.Material.Kind != material.KindDielectric || glass.Material.IOR != 1.5 {
		t.Errorf("Expected dielectric with IOR 1.5, got %+v", glass.Material)
	}

	metal := sc.Shapes[2].(*geometry.Sphere)
	want := material.NewMetal(core.NewColor(0.7, 0.6, 0.5), 0)
	if diff := cmp.Diff(want, metal.Material); diff != "" {
		t.Errorf("Metal mismatch (-want +got):\n%s", diff)
	}

	box := sc.Shapes[3].(*geometry.AxisAlignedBox)
	if box.Material.Kind != material.KindDiffuseLight {
		t.Errorf("Expected diffuse light box, got %v", box.Material.Kind)
	}
	if box.Min != core.NewVec3(-1, 0, -1) || box.Max != core.NewVec3(1, 2, 1) {
		t.Errorf("Unexpected box bounds %v %v", box.Min, box.Max)
	}
}

func TestParseScene_JSONMatchesYAML(t *testing.T) {
	const sceneJSON = `{
		"camera": {"lookfrom": [0, 0, 5], "lookat": [0, 0, 0], "vfov": 40},
		"spheres": [{"center": [0, 0, 0], "radius": 1, "material": {"type": "lambertian", "albedo": [0.1, 0.2, 0.3]}}]
	}`
	const sceneYAML = `
camera: {lookfrom: [0, 0, 5], lookat: [0, 0, 0], vfov: 40}
spheres:
  - {center: [0, 0, 0], radius: 1, material: {type: lambertian, albedo: {type: constant, color: [0.1, 0.2, 0.3]}}}
`
	fromJSON, err := ParseScene([]byte(sceneJSON), "s", ".", 1)
	if err != nil {
		t.Fatalf("JSON parse failed: %v", err)
	}
	fromYAML, err := ParseScene([]byte(sceneYAML), "s", ".", 1)
	if err != nil {
		t.Fatalf("YAML parse failed: %v", err)
	}

	if diff := cmp.Diff(fromYAML.CameraConfig, fromJSON.CameraConfig); diff != "" {
		t.Errorf("Camera mismatch (-yaml +json):\n%s", diff)
	}
	if diff := cmp.Diff(fromYAML.Shapes[0], fromJSON.Shapes[0]); diff != "" {
		t.Errorf("Sphere mismatch (-yaml +json):\n%s", diff)
	}
}

func TestParseScene_Defaults(t *testing.T) {
	sc, err := ParseScene([]byte(`camera: {lookfrom: [3, 0, 4], lookat: [0, 0, 0]}
spheres:
  - {center: [0, 0, 0], radius: 0.5, material: {type: lambertian}}
  - {center: [0, 1, 0], radius: 0.5, material: {type: dielectric}}
`), "defaults", ".", 2)
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}

	if sc.SamplingConfig != (scene.SamplingConfig{MaxDepth: scene.UnsetDepth}) {
		t.Errorf("Expected no sampling recommendation, got %+v", sc.SamplingConfig)
	}

	if sc.Background != scene.NewSkyBackground() {
		t.Errorf("Expected sky background by default, got %+v", sc.Background)
	}

	// Focal length falls back to the distance between lookfrom and lookat
	opts := cmpopts.EquateApprox(0, 1e-12)
	if diff := cmp.Diff(5.0, sc.CameraConfig.FocusDistance, opts); diff != "" {
		t.Errorf("Focus distance mismatch (-want +got):\n%s", diff)
	}
	if sc.CameraConfig.VFov != 90 || sc.CameraConfig.AspectRatio != 2 {
		t.Errorf("Expected vfov 90 and aspect 2, got %f and %f", sc.CameraConfig.VFov, sc.CameraConfig.AspectRatio)
	}

	lambertian := sc.Shapes[0].(*geometry.Sphere).Material
	if lambertian.Texture.Color != core.NewColor(0.5, 0.5, 0.5) {
		t.Errorf("Expected default albedo 0.5, got %v", lambertian.Texture.Color)
	}
	if glass := sc.Shapes[1].(*geometry.Sphere).Material; glass.IOR != 1.5 {
		t.Errorf("Expected default IOR 1.5, got %f", glass.IOR)
	}
}

func TestParseScene_HollowSphere(t *testing.T) {
	sc, err := ParseScene([]byte(`spheres:
  - {center: [0, 0, 0], radius: -0.45, material: {type: dielectric, ior: 1.5}}
`), "hollow", ".", 1)
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}
	if r := sc.Shapes[0].(*geometry.Sphere).Radius; r != -0.45 {
		t.Errorf("Expected negative radius to be kept, got %f", r)
	}
}

func TestParseScene_ZeroDepthIsKept(t *testing.T) {
	sc, err := ParseScene([]byte("depth: 0\nsamples: 5\n"), "direct", ".", 1)
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}
	if sc.SamplingConfig != (scene.SamplingConfig{SamplesPerPixel: 5, MaxDepth: 0}) {
		t.Errorf("Expected depth 0 to be kept, got %+v", sc.SamplingConfig)
	}
}

func TestParseScene_TexturedMetal(t *testing.T) {
	const input = `
spheres:
  - center: [0, 0, 0]
    radius: 1
    material:
      type: metal
      fuzz: 0.2
      albedo: {type: checkered, even: [0.9, 0.9, 0.9], odd: [0.1, 0.1, 0.1], scale: 2}
`
	sc, err := ParseScene([]byte(input), "metal", ".", 1)
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}

	got := sc.Shapes[0].(*geometry.Sphere).Material
	want := material.NewTexturedMetal(
		material.NewCheckeredTexture(core.NewColor(0.9, 0.9, 0.9), core.NewColor(0.1, 0.1, 0.1), 2), 0.2)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Metal mismatch (-want +got):\n%s", diff)
	}
}

func TestParseScene_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"unknown material", `spheres: [{center: [0,0,0], radius: 1, material: {type: plastic}}]`, ErrUnknownMaterial},
		{"unknown texture", `spheres: [{center: [0,0,0], radius: 1, material: {type: lambertian, albedo: {type: marble}}}]`, ErrUnknownTexture},
		{"unknown background", `background: {type: starfield}`, ErrUnknownBackground},
		{"short vector", `spheres: [{center: [0,0], radius: 1, material: {type: dielectric}}]`, ErrInvalidScene},
		{"long color", `background: {type: solid, color: [1, 1, 1, 1]}`, ErrInvalidScene},
		{"light without emit", `boxes: [{min: [0,0,0], max: [1,1,1], material: {type: diffuse-light}}]`, ErrInvalidScene},
		{"coincident camera", `camera: {lookfrom: [1, 1, 1], lookat: [1, 1, 1]}`, ErrInvalidScene},
		{"malformed", `spheres: {`, ErrInvalidScene},
		{"negative depth", `depth: -2`, ErrInvalidScene},
		{"image without path", `spheres: [{center: [0,0,0], radius: 1, material: {type: lambertian, albedo: {type: image}}}]`, ErrInvalidScene},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene([]byte(tt.input), "bad", ".", 1)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadScene_ImageTexturesShared(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "checker.png"))

	content := `
camera: {lookfrom: [0, 0, 3], lookat: [0, 0, 0], vfov: 40}
spheres:
  - {center: [-1, 0, 0], radius: 0.5, material: {type: lambertian, albedo: {type: image, path: checker.png}}}
  - {center: [1, 0, 0], radius: 0.5, material: {type: diffuse-light, emit: {type: image, path: checker.png}}}
`
	path := filepath.Join(dir, "textured.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScene(path, 1.5)
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}

	if sc.Name != "textured" {
		t.Errorf("Expected scene name from file name, got %q", sc.Name)
	}

	first := sc.Shapes[0].(*geometry.Sphere).Material.Texture
	second := sc.Shapes[1].(*geometry.Sphere).Material.Texture
	if first.Kind != material.TextureImage || second.Kind != material.TextureImage {
		t.Fatalf("Expected image textures, got %v and %v", first.Kind, second.Kind)
	}
	if first.Image != second.Image {
		t.Error("Expected both materials to share one decoded image")
	}
	if first.Image.Width != 2 || first.Image.Height != 2 {
		t.Errorf("Expected 2x2 texture, got %dx%d", first.Image.Width, first.Image.Height)
	}
}

func TestLoadScene_MissingFile(t *testing.T) {
	if _, err := LoadScene(filepath.Join(t.TempDir(), "missing.yaml"), 1); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected a not-exist error, got %v", err)
	}
}

func TestParseScene_ClosestHitIsLight(t *testing.T) {
	sc, err := ParseScene([]byte(testSceneYAML), "test", ".", 16.0/9.0)
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}

	hit, ok := sc.Hit(core.NewRay(core.NewVec3(0.9, 5, 0), core.NewVec3(0, -1, 0)), 0.1, math.Inf(1))
	if !ok {
		t.Fatal("Expected the downward ray to hit the light box")
	}
	if hit.Material.Kind != material.KindDiffuseLight {
		t.Errorf("Expected to hit the diffuse light box first, got %v", hit.Material.Kind)
	}
}

func TestLoadSceneByID(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(testSceneYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadSceneByID("file:test", dir, 2)
	if err != nil {
		t.Fatalf("LoadSceneByID(file:test) failed: %v", err)
	}
	if sc.Name != "test" || sc.CameraConfig.AspectRatio != 2 {
		t.Errorf("Expected scene test with aspect 2, got %q with aspect %v", sc.Name, sc.CameraConfig.AspectRatio)
	}

	sc, err = LoadSceneByID("cornell", dir, 1.5)
	if err != nil {
		t.Fatalf("LoadSceneByID(cornell) failed: %v", err)
	}
	if sc.CameraConfig.AspectRatio != 1.5 {
		t.Errorf("Expected aspect 1.5 on the built-in scene, got %v", sc.CameraConfig.AspectRatio)
	}

	for _, id := range []string{"file:missing", "nope"} {
		if _, err := LoadSceneByID(id, dir, 1); !errors.Is(err, scene.ErrUnknownScene) {
			t.Errorf("LoadSceneByID(%q) = %v, want ErrUnknownScene", id, err)
		}
	}
}

func TestLoadScene_ExampleScenes(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "scenes", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example scenes")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			sc, err := LoadScene(path, 16.0/9.0)
			if err != nil {
				t.Fatalf("LoadScene failed: %v", err)
			}
			if sc.GetPrimitiveCount() == 0 {
				t.Error("Expected at least one primitive")
			}
		})
	}
}
