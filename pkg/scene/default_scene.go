package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewDefaultScene creates a default scene with spheres, ground, and camera
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
		LookAt:        core.NewVec3(0, 0.5, -1), // Look at the sphere center
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		Aperture:      0.05,
		FocusDistance: 0.0, // Auto-calculate focus distance
	}
	cameraConfig := applyCameraOverrides(defaultCameraConfig, cameraOverrides)

	width := 400
	s := newScene(cameraConfig, SamplingConfig{
		Width:           width,
		Height:          HeightFor(width, cameraConfig.AspectRatio),
		SamplesPerPixel: 100,
		MaxDepth:        50,
	})

	ground := s.AddMaterial(material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6)))
	red := s.AddMaterial(material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2)))
	blue := s.AddMaterial(material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))
	silver := s.AddMaterial(material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0))
	gold := s.AddMaterial(material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3))
	glass := s.AddMaterial(material.NewDielectric(1.5))

	// Large sphere as the ground
	s.AddSphere(core.NewVec3(0, -100, -1), 100, ground)

	s.AddSphere(core.NewVec3(0, 0.5, -1), 0.5, red)
	s.AddSphere(core.NewVec3(-1, 0.5, -1), 0.5, silver)
	s.AddSphere(core.NewVec3(1, 0.5, -1), 0.5, gold)
	s.AddSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, glass)

	// Hollow glass sphere with a blue sphere inside; the negative radius inverts the inner wall
	s.AddSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.25, glass)
	s.AddSphere(core.NewVec3(-0.5, 0.25, -0.5), -0.24, glass)
	s.AddSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.20, blue)

	return s
}
