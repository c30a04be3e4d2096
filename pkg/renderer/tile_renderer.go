package renderer

import (
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator.
// It holds no mutable state and may be shared by all workers.
type TileRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	width      int
	height     int
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(s *scene.Scene, integratorInst integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		scene:      s,
		integrator: integratorInst,
		width:      s.SamplingConfig.Width,
		height:     s.SamplingConfig.Height,
	}
}

// RenderTileBounds tops up every pixel within bounds to targetSamples samples.
// bounds are in image coordinates, where row 0 is the top of the picture.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pixelStats[y][x]
			samplesUsed := 0
			for ps.SampleCount < targetSamples {
				ps.AddSample(tr.SamplePixel(x, y, sampler))
				samplesUsed++
			}
			stats.addPixel(samplesUsed, ps.MeanVariance())
		}
	}

	stats.finalize()
	return stats
}

// SamplePixel returns one radiance sample through a jittered point of image pixel (x, y)
func (tr *TileRenderer) SamplePixel(x, y int, sampler core.Sampler) core.Color {
	// Image rows run top to bottom; the camera's t coordinate runs bottom to top
	i := x
	j := tr.height - 1 - y

	u := (float64(i) + sampler.Get1D()) / denominator(tr.width)
	v := (float64(j) + sampler.Get1D()) / denominator(tr.height)

	ray := tr.scene.Camera.GetRay(u, v, sampler)
	return tr.integrator.RayColor(ray, tr.scene, sampler)
}

// denominator maps pixel indices onto [0, 1]; a single pixel maps onto [0, 1) itself
func denominator(size int) float64 {
	if size <= 1 {
		return 1
	}
	return float64(size - 1)
}
