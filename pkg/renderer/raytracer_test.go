package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestRaytracer_SphereSceneCenterDiffersFromEdge(t *testing.T) {
	s := scene.NewSphereScene()
	s.SamplingConfig.Width = 32
	s.SamplingConfig.Height = 18

	rt := NewRaytracer(s)
	rt.SetSamplingConfig(scene.SamplingConfig{SamplesPerPixel: 16, MaxDepth: 10})
	img := rt.Render(core.NewSeededSampler(42))

	if img.Bounds() != image.Rect(0, 0, 32, 18) {
		t.Fatalf("Unexpected image bounds %v", img.Bounds())
	}

	center := img.RGBAAt(16, 9)
	corner := img.RGBAAt(0, 0)

	// The top corner only sees sky, which is bright and blue-tinted
	if corner.B < 200 || corner.R >= corner.B {
		t.Errorf("Expected sky at the top corner, got %v", corner)
	}

	// The center looks at the gray sphere, which is darker than the sky
	diff := int(corner.R) - int(center.R) + int(corner.G) - int(center.G) + int(corner.B) - int(center.B)
	if diff < 60 {
		t.Errorf("Center %v should differ clearly from the background %v", center, corner)
	}
}

func TestRaytracer_Deterministic(t *testing.T) {
	s := scene.NewDefaultScene()
	s.SamplingConfig.Width = 16
	s.SamplingConfig.Height = 9
	s.SamplingConfig.SamplesPerPixel = 2

	img1 := NewRaytracer(s).Render(core.NewSeededSampler(7))
	img2 := NewRaytracer(s).Render(core.NewSeededSampler(7))

	for i := range img1.Pix {
		if img1.Pix[i] != img2.Pix[i] {
			t.Fatalf("Renders with the same seed differ at byte %d", i)
		}
	}
}

func TestRaytracer_ZeroDepthRendersBlack(t *testing.T) {
	s := scene.NewSphereScene()
	s.SamplingConfig.Width = 4
	s.SamplingConfig.Height = 4
	s.SamplingConfig.MaxDepth = 0

	img, stats := NewRaytracer(s).RenderWithStats(core.NewSeededSampler(1))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if c := img.RGBAAt(x, y); c.R != 0 || c.G != 0 || c.B != 0 || c.A != 255 {
				t.Fatalf("Pixel (%d,%d) = %v, want opaque black", x, y, c)
			}
		}
	}
	if stats.TotalSamples != 16*s.SamplingConfig.SamplesPerPixel {
		t.Errorf("Unexpected sample total %d", stats.TotalSamples)
	}
}

func TestRaytracer_ConvergenceReducesVariance(t *testing.T) {
	// Averages of many independent N-sample estimates of one pixel: their spread
	// must shrink as N grows while the mean stays put
	s := scene.NewSphereScene()
	s.SamplingConfig.Width = 9
	s.SamplingConfig.Height = 9

	tr := NewTileRenderer(s, integrator.NewPathTracingIntegrator(s.SamplingConfig))
	estimate := func(n int, seed int64) float64 {
		sampler := core.NewSeededSampler(seed)
		var ps PixelStats
		for i := 0; i < n; i++ {
			ps.AddSample(tr.SamplePixel(4, 4, sampler))
		}
		return ps.GetColor().Luminance()
	}

	spread := func(n int) (mean, variance float64) {
		const runs = 200
		var sum, sumSq float64
		for r := 0; r < runs; r++ {
			v := estimate(n, int64(1000*n+r))
			sum += v
			sumSq += v * v
		}
		mean = sum / runs
		return mean, sumSq/runs - mean*mean
	}

	mean1, var1 := spread(1)
	mean16, var16 := spread(16)

	if var16 >= var1 {
		t.Errorf("Variance should fall with more samples: N=1 %f, N=16 %f", var1, var16)
	}
	if diff := mean1 - mean16; diff > 0.05 || diff < -0.05 {
		t.Errorf("Expected value should not change: N=1 mean %f, N=16 mean %f", mean1, mean16)
	}
}
