package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	Materials      *material.Palette // Materials referenced by sphere handles
	World          *geometry.World   // Objects in the scene
	Background     Background        // Color returned for rays that escape the scene
	SamplingConfig SamplingConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// Background is a vertical gradient from Bottom (looking straight down) to Top (straight up)
type Background struct {
	Top    core.Color
	Bottom core.Color
}

// DefaultBackground returns the white-to-sky-blue gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Color returns the background seen along ray. It depends only on the
// vertical component of the unit direction.
func (b Background) Color(ray core.Ray) core.Color {
	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return b.Bottom.Lerp(b.Top, t)
}

// newScene assembles an empty scene around a camera configuration
func newScene(cameraConfig geometry.CameraConfig, sampling SamplingConfig) *Scene {
	return &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		Materials:      material.NewPalette(),
		World:          geometry.NewWorld(),
		Background:     DefaultBackground(),
		SamplingConfig: sampling,
	}
}

// AddMaterial registers a material and returns its handle
func (s *Scene) AddMaterial(m material.Material) material.ID {
	return s.Materials.Add(m)
}

// AddSphere adds a sphere that uses an already registered material
func (s *Scene) AddSphere(center core.Point3, radius float64, mat material.ID) {
	s.World.Add(geometry.NewSphere(center, radius, mat))
}

// GetPrimitiveCount returns the number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	if s.World == nil {
		return 0
	}
	return s.World.Len()
}

// Validate checks that the scene can be rendered
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return fmt.Errorf("scene has no camera")
	}
	if s.World == nil {
		return fmt.Errorf("scene has no world")
	}
	cfg := s.SamplingConfig
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", cfg.SamplesPerPixel)
	}
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", cfg.MaxDepth)
	}
	for i, sphere := range s.World.Spheres {
		if sphere.Radius == 0 || math.IsNaN(sphere.Radius) {
			return fmt.Errorf("sphere %d has invalid radius %v", i, sphere.Radius)
		}
		if _, ok := s.Materials.Lookup(sphere.Material); !ok {
			return fmt.Errorf("sphere %d references unknown material %d", i, sphere.Material)
		}
	}
	return nil
}

// applyCameraOverrides merges the first override, if any, into the scene's defaults
func applyCameraOverrides(defaults geometry.CameraConfig, overrides []geometry.CameraConfig) geometry.CameraConfig {
	if len(overrides) > 0 {
		return geometry.MergeCameraConfig(defaults, overrides[0])
	}
	return defaults
}

// HeightFor returns the image height matching width at the given aspect ratio
func HeightFor(width int, aspectRatio float64) int {
	height := int(float64(width) / aspectRatio)
	if height < 1 {
		height = 1
	}
	return height
}
