package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewSphereScene creates a single diffuse sphere of radius 0.5 at (0, 0, -1)
// seen by a pinhole camera at the origin looking down -Z
func NewSphereScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   16.0 / 9.0,
		VFov:          90.0,
		FocusDistance: 1.0,
	}
	cameraConfig := applyCameraOverrides(defaultCameraConfig, cameraOverrides)

	width := 400
	s := newScene(cameraConfig, SamplingConfig{
		Width:           width,
		Height:          HeightFor(width, cameraConfig.AspectRatio),
		SamplesPerPixel: 50,
		MaxDepth:        50,
	})

	diffuse := s.AddMaterial(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, diffuse)

	return s
}
