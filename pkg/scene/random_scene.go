package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// DefaultRandomSeed is the layout seed used when the random scene is built by name
const DefaultRandomSeed int64 = 42

// NewRandomScene creates the classic field of small random spheres around three large ones.
// The layout is a pure function of seed.
func NewRandomScene(seed int64, cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   3.0 / 2.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}
	cameraConfig := applyCameraOverrides(defaultCameraConfig, cameraOverrides)

	width := 600
	s := newScene(cameraConfig, SamplingConfig{
		Width:           width,
		Height:          HeightFor(width, cameraConfig.AspectRatio),
		SamplesPerPixel: 100,
		MaxDepth:        50,
	})

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))

	ground := s.AddMaterial(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, ground)

	// Every glass sphere shares a single material
	glass := s.AddMaterial(material.NewDielectric(1.5))

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(
				float64(a)+0.9*sampler.Get1D(),
				0.2,
				float64(b)+0.9*sampler.Get1D(),
			)

			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var id material.ID
			switch {
			case chooseMat < 0.8:
				albedo := core.RandomVec3(sampler, 0, 1).MultiplyVec(core.RandomVec3(sampler, 0, 1))
				id = s.AddMaterial(material.NewLambertian(albedo))
			case chooseMat < 0.95:
				albedo := core.RandomVec3(sampler, 0.5, 1)
				fuzz := core.RandomFloat(sampler, 0, 0.5)
				id = s.AddMaterial(material.NewMetal(albedo, fuzz))
			default:
				id = glass
			}
			s.AddSphere(center, 0.2, id)
		}
	}

	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, glass)
	s.AddSphere(core.NewVec3(-4, 1, 0), 1.0, s.AddMaterial(material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))))
	s.AddSphere(core.NewVec3(4, 1, 0), 1.0, s.AddMaterial(material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)))

	return s
}
