package material

import (
	"github.com/df07/rayo/pkg/core"
)

// Kind selects the material variant
type Kind int

const (
	KindLambertian   Kind = iota // Ideal diffuse reflector
	KindMetal                    // Mirror reflection with optional fuzz
	KindDielectric               // Glass-like refraction and reflection
	KindDiffuseLight             // Emitter that never scatters
)

func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	case KindDiffuseLight:
		return "diffuse-light"
	default:
		return "unknown"
	}
}

// Material describes how a surface scatters and emits light.
// Only the fields of the selected Kind are meaningful.
type Material struct {
	Kind Kind

	Texture Texture // Lambertian or Metal albedo, Dielectric tint or DiffuseLight emission
	Fuzz    float64 // Metal roughness in [0, 1]
	IOR     float64 // Dielectric index of refraction
}

// NewLambertian creates a diffuse material with a solid albedo
func NewLambertian(albedo core.Color) Material {
	return NewTexturedLambertian(NewConstantTexture(albedo))
}

// NewTexturedLambertian creates a diffuse material whose albedo comes from a texture
func NewTexturedLambertian(albedo Texture) Material {
	return Material{Kind: KindLambertian, Texture: albedo}
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Color, fuzz float64) Material {
	return NewTexturedMetal(NewConstantTexture(albedo), fuzz)
}

// NewTexturedMetal creates a metal whose reflectance comes from a texture.
// Fuzz is clamped to [0, 1].
func NewTexturedMetal(albedo Texture, fuzz float64) Material {
	fuzz = max(0.0, min(1.0, fuzz))
	return Material{Kind: KindMetal, Texture: albedo, Fuzz: fuzz}
}

// NewDielectric creates a clear dielectric material
func NewDielectric(ior float64) Material {
	return NewTintedDielectric(ior, NewConstantTexture(core.White))
}

// NewTintedDielectric creates a dielectric whose transmission is filtered by tint
func NewTintedDielectric(ior float64, tint Texture) Material {
	return Material{Kind: KindDielectric, IOR: ior, Texture: tint}
}

// NewDiffuseLight creates an emitter with a solid emission color
func NewDiffuseLight(emit core.Color) Material {
	return NewTexturedDiffuseLight(NewConstantTexture(emit))
}

// NewTexturedDiffuseLight creates an emitter whose emission comes from a texture
func NewTexturedDiffuseLight(emit Texture) Material {
	return Material{Kind: KindDiffuseLight, Texture: emit}
}

// Scatter produces the continuation ray and its attenuation, or false if the ray is absorbed
func (m *Material) Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case KindLambertian:
		return m.scatterLambertian(hit, sampler)
	case KindMetal:
		return m.scatterMetal(rayIn, hit, sampler)
	case KindDielectric:
		return m.scatterDielectric(rayIn, hit, sampler)
	default:
		return ScatterResult{}, false
	}
}

// Emitted returns the light emitted at the hit point; black for non-emitters
func (m *Material) Emitted(hit *HitRecord) core.Color {
	if m.Kind != KindDiffuseLight {
		return core.Black
	}
	return m.Texture.Value(hit.UV, hit.Point)
}
