package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// World is an ordered collection of spheres intersected as one object.
// Spheres are stored by value so the world can be shared read-only across workers.
type World struct {
	Spheres []Sphere
}

// NewWorld creates a world from the given spheres
func NewWorld(spheres ...Sphere) *World {
	return &World{Spheres: append([]Sphere(nil), spheres...)}
}

// Add appends a sphere to the world
func (w *World) Add(s Sphere) {
	w.Spheres = append(w.Spheres, s)
}

// Len returns the number of spheres in the world
func (w *World) Len() int {
	return len(w.Spheres)
}

// Hit returns the nearest intersection over all spheres
func (w *World) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var closestHit material.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for i := range w.Spheres {
		if hit, isHit := w.Spheres[i].Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}
