package core

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		result   Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"Divide", b.Divide(2), NewVec3(2, -2.5, 3)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Lerp", NewVec3(1, 1, 1).Lerp(NewVec3(0.5, 0.7, 1.0), 1), NewVec3(0.5, 0.7, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.result.ApproxEquals(tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}
}

func TestVec3_DotAndLength(t *testing.T) {
	v := NewVec3(2, 3, 6)

	if v.Dot(NewVec3(1, 1, 1)) != 11 {
		t.Errorf("Expected dot 11, got %f", v.Dot(NewVec3(1, 1, 1)))
	}
	if v.LengthSquared() != 49 {
		t.Errorf("Expected squared length 49, got %f", v.LengthSquared())
	}
	if v.Length() != 7 {
		t.Errorf("Expected length 7, got %f", v.Length())
	}

	unit := v.Normalize()
	if math.Abs(unit.Length()-1) > 1e-12 {
		t.Errorf("Normalized vector should have unit length, got %f", unit.Length())
	}
}

func TestVec3_CrossIsOrthogonal(t *testing.T) {
	a := NewVec3(0.3, -1.2, 2.5)
	b := NewVec3(-4, 0.5, 1)
	c := a.Cross(b)

	if math.Abs(c.Dot(a)) > 1e-12 || math.Abs(c.Dot(b)) > 1e-12 {
		t.Errorf("Cross product %v should be orthogonal to both inputs", c)
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	if !NewVec3(0, 0, 0).Normalize().Equals(NewVec3(0, 0, 0)) {
		t.Error("Normalizing the zero vector should return the zero vector")
	}
}

func TestVec3_NearZero(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		expected bool
	}{
		{"zero", NewVec3(0, 0, 0), true},
		{"tiny", NewVec3(1e-9, -1e-9, 5e-9), true},
		{"one component large", NewVec3(1e-9, 1e-3, 0), false},
		{"unit", NewVec3(1, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.vector.NearZero() != tt.expected {
				t.Errorf("NearZero(%v) = %t, expected %t", tt.vector, !tt.expected, tt.expected)
			}
		})
	}
}

func TestVec3_ClampAndSqrt(t *testing.T) {
	clamped := NewVec3(-0.5, 0.5, 1.5).Clamp(0, 0.999)
	if !clamped.Equals(NewVec3(0, 0.5, 0.999)) {
		t.Errorf("Unexpected clamp result %v", clamped)
	}

	root := NewVec3(0.25, 1, 0).Sqrt()
	if !root.Equals(NewVec3(0.5, 1, 0)) {
		t.Errorf("Unexpected sqrt result %v", root)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -2))
	point := ray.At(1.5)
	if !point.Equals(NewVec3(1, 2, 0)) {
		t.Errorf("Expected (1, 2, 0), got %v", point)
	}
}
