package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// NewLambertian creates a perfectly diffuse material
func NewLambertian(albedo core.Color) Material {
	return Material{Kind: KindLambertian, Albedo: albedo}
}

// scatterLambertian always scatters along normal + random unit vector
func scatterLambertian(m Material, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	scatterDirection := hit.Normal.Add(core.RandomUnitVector(sampler))

	// The random vector can cancel the normal almost exactly
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: m.Albedo,
	}, true
}
