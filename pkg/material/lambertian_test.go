package material

import (
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// constantSampler always returns the same value
type constantSampler float64

func (c constantSampler) Get1D() float64 { return float64(c) }
func (c constantSampler) Get2D() core.Vec2 {
	return core.NewVec2(float64(c), float64(c))
}
func (c constantSampler) Get3D() core.Vec3 {
	return core.NewVec3(float64(c), float64(c), float64(c))
}

func TestLambertian_AttenuationAndOrigin(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.7, 0.9)
	lambertian := NewLambertian(albedo)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	hit := HitRecord{
		Point:  core.NewVec3(1, 2, 3),
		Normal: core.NewVec3(0, 0, 1),
	}
	ray := core.NewRay(core.NewVec3(1, 2, 4), core.NewVec3(0, 0, -1))

	for i := 0; i < 100; i++ {
		scatter, didScatter := lambertian.Scatter(ray, hit, sampler)
		if !didScatter {
			t.Fatal("Lambertian should always scatter")
		}
		if !scatter.Attenuation.Equals(albedo) {
			t.Errorf("Attenuation should equal albedo: expected %v, got %v", albedo, scatter.Attenuation)
		}
		if !scatter.Scattered.Origin.Equals(hit.Point) {
			t.Errorf("Scattered origin should be the hit point: expected %v, got %v", hit.Point, scatter.Scattered.Origin)
		}
	}
}

func TestLambertian_ScattersIntoHemisphere(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.8, 0.8, 0.8))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	normal := core.NewVec3(0, 1, 0)
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: normal}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	for i := 0; i < 1000; i++ {
		scatter, _ := lambertian.Scatter(ray, hit, sampler)
		// normal + unit vector can only graze the tangent plane, never go below it
		if scatter.Scattered.Direction.Dot(normal) < 0 {
			t.Fatalf("Diffuse direction %v points below the surface", scatter.Scattered.Direction)
		}
	}
}

func TestLambertian_DegenerateDirectionFallsBackToNormal(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.8, 0.8, 0.8))

	// A constant 0.25 sampler yields the unit vector -(1,1,1)/sqrt(3),
	// which cancels a normal of (1,1,1)/sqrt(3)
	quarter := constantSampler(0.25)
	normal := core.NewVec3(1, 1, 1).Normalize()
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: normal}
	ray := core.NewRay(core.NewVec3(1, 1, 1), normal.Negate())

	scatter, didScatter := lambertian.Scatter(ray, hit, quarter)
	if !didScatter {
		t.Fatal("Lambertian should always scatter")
	}
	if !scatter.Scattered.Direction.Equals(normal) {
		t.Errorf("Expected fallback to the normal %v, got %v", normal, scatter.Scattered.Direction)
	}
}
