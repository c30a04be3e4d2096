package material

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Kind identifies which scattering model a Material uses
type Kind uint8

const (
	KindLambertian Kind = iota
	KindMetal
	KindDielectric
)

func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Material is a closed set of surface models. Only the fields used by Kind are meaningful.
type Material struct {
	Kind            Kind
	Albedo          core.Color // Lambertian and Metal reflectance
	Fuzz            float64    // Metal roughness in [0, 1]
	RefractiveIndex float64    // Dielectric index of refraction
}

// Scatter decides whether light continues after striking the surface.
// A false result means the ray was absorbed.
func (m Material) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case KindLambertian:
		return scatterLambertian(m, hit, sampler)
	case KindMetal:
		return scatterMetal(m, rayIn, hit, sampler)
	case KindDielectric:
		return scatterDielectric(m, rayIn, hit, sampler)
	default:
		return ScatterResult{}, false
	}
}

func (m Material) String() string {
	switch m.Kind {
	case KindMetal:
		return fmt.Sprintf("metal(albedo=%v, fuzz=%g)", m.Albedo, m.Fuzz)
	case KindDielectric:
		return fmt.Sprintf("dielectric(ir=%g)", m.RefractiveIndex)
	default:
		return fmt.Sprintf("%s(albedo=%v)", m.Kind, m.Albedo)
	}
}
