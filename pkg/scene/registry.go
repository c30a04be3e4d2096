package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Builder constructs a scene, applying optional camera overrides
type Builder func(cameraOverrides ...geometry.CameraConfig) *Scene

var builders = map[string]Builder{
	"default": NewDefaultScene,
	"random": func(cameraOverrides ...geometry.CameraConfig) *Scene {
		return NewRandomScene(DefaultRandomSeed, cameraOverrides...)
	},
	"sphere":     NewSphereScene,
	"spheregrid": NewSphereGridScene,
}

// New builds the named scene
func New(name string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return build(cameraOverrides...), nil
}

// Names returns the registered scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
