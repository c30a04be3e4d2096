package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// MinHitDistance keeps scattered rays from re-hitting the surface they leave
const MinHitDistance = 0.001

// PathTracingIntegrator implements unidirectional path tracing
type PathTracingIntegrator struct {
	maxDepth int
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		maxDepth: config.MaxDepth,
	}
}

// MaxDepth returns the bounce limit
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor follows ray through the scene, multiplying the throughput by each
// surface's attenuation until the path escapes to the background, is absorbed,
// or runs out of bounces. Exhausting the bounce limit contributes black.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Color {
	throughput := core.NewVec3(1, 1, 1)

	for depth := pt.maxDepth; depth > 0; depth-- {
		hit, isHit := s.World.Hit(ray, MinHitDistance, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(s.Background.Color(ray))
		}

		mat, ok := s.Materials.Lookup(hit.Material)
		if !ok {
			return core.Color{}
		}

		scatter, didScatter := mat.Scatter(ray, hit, sampler)
		if !didScatter {
			return core.Color{}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	return core.Color{}
}
