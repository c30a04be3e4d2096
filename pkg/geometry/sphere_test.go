package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 3)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction",
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -2),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}
			if !hit.Normal.ApproxEquals(tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if hit.Material != 3 {
				t.Errorf("Expected material ID 3, got %d", hit.Material)
			}
		})
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}
	if !hit.Point.ApproxEquals(core.NewVec3(1, 0, 0), 1e-9) {
		t.Errorf("Expected hit point (1, 0, 0), got %v", hit.Point)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	if hit, isHit := sphere.Hit(ray, 0.001, 0.5); isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}
	if hit, isHit := sphere.Hit(ray, 3.5, 1000.0); isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}

	// tMin past the near root selects the far root
	hit, isHit := sphere.Hit(ray, 1.5, 1000.0)
	if !isHit {
		t.Fatal("Expected far-root hit")
	}
	if math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("Expected far root t=3, got %f", hit.T)
	}
	if hit.FrontFace {
		t.Error("Far root of a sphere seen from outside is a back face")
	}
}

func TestSphere_NegativeRadiusFlipsOrientation(t *testing.T) {
	// Inner wall of a hollow shell: outward normal points toward the center
	shell := NewSphere(core.NewVec3(0, 0, 0), -1.0, 0)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := shell.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit")
	}
	if hit.FrontFace {
		t.Error("Entering a negative-radius sphere should report a back face")
	}
	if !hit.Normal.ApproxEquals(core.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Normal should still face the ray, got %v", hit.Normal)
	}
}

func TestSphere_Hit_RandomRaysOnSurface(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sphere := NewSphere(core.NewVec3(0.5, -1, 2), 1.7, 0)
	sampler := core.NewRandomSampler(random)

	hits := 0
	for i := 0; i < 2000; i++ {
		origin := core.RandomVec3(sampler, -5, 5)
		direction := core.RandomUnitVector(sampler).Multiply(0.1 + 3*random.Float64())
		ray := core.NewRay(origin, direction)

		hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
		if !isHit {
			continue
		}
		hits++

		distance := ray.At(hit.T).Subtract(sphere.Center).Length()
		if math.Abs(distance-sphere.Radius) > 1e-9 {
			t.Fatalf("Hit point is %f from center, expected radius %f", distance, sphere.Radius)
		}
		if hit.Normal.Dot(ray.Direction) > 0 {
			t.Fatalf("Normal %v does not face against the ray %v", hit.Normal, ray.Direction)
		}
		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Fatalf("Normal should be unit length, got %f", hit.Normal.Length())
		}
	}

	if hits == 0 {
		t.Fatal("Expected at least some random rays to hit the sphere")
	}
}
