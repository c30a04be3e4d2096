package renderer

import (
	"image"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// MockIntegrator returns a fixed color and records the rays it receives
type MockIntegrator struct {
	returnColor core.Color
	callCount   int
	rays        []core.Ray
}

func (m *MockIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Color {
	m.callCount++
	m.rays = append(m.rays, ray)
	return m.returnColor
}

func createTestScene(width, height int) *scene.Scene {
	s := scene.NewSphereScene()
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = height
	return s
}

func newPixelStats(width, height int) [][]PixelStats {
	pixelStats := make([][]PixelStats, height)
	for i := range pixelStats {
		pixelStats[i] = make([]PixelStats, width)
	}
	return pixelStats
}

func TestTileRendererPixelSampling(t *testing.T) {
	s := createTestScene(2, 2)
	mockIntegrator := &MockIntegrator{returnColor: core.NewVec3(0.7, 0.3, 0.1)}
	renderer := NewTileRenderer(s, mockIntegrator)

	pixelStats := newPixelStats(2, 2)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	targetSamples := 4

	stats := renderer.RenderTileBounds(image.Rect(0, 0, 2, 2), pixelStats, sampler, targetSamples)

	if mockIntegrator.callCount != 16 {
		t.Errorf("Expected 16 integrator calls, got %d", mockIntegrator.callCount)
	}
	if stats.TotalPixels != 4 || stats.TotalSamples != 16 || stats.MaxSamples != targetSamples {
		t.Errorf("Unexpected stats %+v", stats)
	}

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if pixelStats[y][x].SampleCount != targetSamples {
				t.Errorf("Pixel [%d][%d] has %d samples, want %d", y, x, pixelStats[y][x].SampleCount, targetSamples)
			}
			if !pixelStats[y][x].GetColor().ApproxEquals(mockIntegrator.returnColor, 1e-12) {
				t.Errorf("Pixel [%d][%d] color %v", y, x, pixelStats[y][x].GetColor())
			}
		}
	}
}

func TestTileRendererTopsUpToTarget(t *testing.T) {
	s := createTestScene(2, 1)
	mockIntegrator := &MockIntegrator{returnColor: core.NewVec3(1, 1, 1)}
	renderer := NewTileRenderer(s, mockIntegrator)
	pixelStats := newPixelStats(2, 1)
	sampler := core.NewSeededSampler(1)

	renderer.RenderTileBounds(image.Rect(0, 0, 2, 1), pixelStats, sampler, 3)
	stats := renderer.RenderTileBounds(image.Rect(0, 0, 2, 1), pixelStats, sampler, 5)

	if stats.TotalSamples != 4 {
		t.Errorf("Second pass should add 2 samples per pixel, added %d in total", stats.TotalSamples)
	}
	if pixelStats[0][1].SampleCount != 5 {
		t.Errorf("Expected 5 accumulated samples, got %d", pixelStats[0][1].SampleCount)
	}

	// A target already reached takes no samples
	stats = renderer.RenderTileBounds(image.Rect(0, 0, 2, 1), pixelStats, sampler, 5)
	if stats.TotalSamples != 0 {
		t.Errorf("Expected no new samples, got %d", stats.TotalSamples)
	}
}

func TestTileRendererBoundsClipping(t *testing.T) {
	s := createTestScene(4, 4)
	mockIntegrator := &MockIntegrator{returnColor: core.NewVec3(0.5, 0.5, 0.5)}
	renderer := NewTileRenderer(s, mockIntegrator)
	pixelStats := newPixelStats(4, 4)

	renderer.RenderTileBounds(image.Rect(1, 2, 3, 4), pixelStats, core.NewSeededSampler(42), 1)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			inside := x >= 1 && x < 3 && y >= 2 && y < 4
			if got := pixelStats[y][x].SampleCount > 0; got != inside {
				t.Errorf("Pixel (%d,%d): sampled=%t, inside bounds=%t", x, y, got, inside)
			}
		}
	}
}

func TestTileRendererRowOrientation(t *testing.T) {
	// With a pinhole camera looking down -Z, image row 0 must see upward rays
	s := createTestScene(3, 3)
	mockIntegrator := &MockIntegrator{}
	renderer := NewTileRenderer(s, mockIntegrator)
	sampler := core.NewSeededSampler(42)

	renderer.SamplePixel(1, 0, sampler)
	renderer.SamplePixel(1, 2, sampler)
	renderer.SamplePixel(0, 1, sampler)
	renderer.SamplePixel(2, 1, sampler)

	top, bottom, left, right := mockIntegrator.rays[0], mockIntegrator.rays[1], mockIntegrator.rays[2], mockIntegrator.rays[3]
	if top.Direction.Y <= 0 || bottom.Direction.Y >= 0 {
		t.Errorf("Row 0 should look up and the last row down: top %v bottom %v", top.Direction, bottom.Direction)
	}
	if left.Direction.X >= 0 || right.Direction.X <= 0 {
		t.Errorf("Column 0 should look left: left %v right %v", left.Direction, right.Direction)
	}
}

func TestTileRendererSinglePixelImage(t *testing.T) {
	// A 1x1 image must still map its jittered sample into [0, 1]
	s := createTestScene(1, 1)
	mockIntegrator := &MockIntegrator{}
	renderer := NewTileRenderer(s, mockIntegrator)
	sampler := core.NewSeededSampler(42)

	for i := 0; i < 100; i++ {
		renderer.SamplePixel(0, 0, sampler)
	}

	// Viewport corners for vfov 90, aspect 16:9 at focus distance 1
	halfWidth := 16.0 / 9.0
	for _, ray := range mockIntegrator.rays {
		d := ray.Direction
		if d.X < -halfWidth || d.X > halfWidth || d.Y < -1 || d.Y > 1 {
			t.Fatalf("Ray %v leaves the viewport", d)
		}
	}
}
