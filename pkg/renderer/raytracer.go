package renderer

import (
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Raytracer renders a whole image on the calling goroutine with one sampler.
// It is the sequential counterpart of ProgressiveRaytracer.
type Raytracer struct {
	scene        *scene.Scene
	width        int
	height       int
	config       scene.SamplingConfig
	tileRenderer *TileRenderer
}

// NewRaytracer creates a new raytracer using the scene's sampling configuration
func NewRaytracer(s *scene.Scene) *Raytracer {
	rt := &Raytracer{
		scene:  s,
		width:  s.SamplingConfig.Width,
		height: s.SamplingConfig.Height,
	}
	rt.SetSamplingConfig(s.SamplingConfig)
	return rt
}

// SetSamplingConfig replaces the sample count and bounce limit; the image size stays fixed
func (rt *Raytracer) SetSamplingConfig(config scene.SamplingConfig) {
	config.Width, config.Height = rt.width, rt.height
	rt.config = config
	rt.tileRenderer = NewTileRenderer(rt.scene, integrator.NewPathTracingIntegrator(config))
}

// Render takes SamplesPerPixel samples for every pixel and returns the 8-bit image
func (rt *Raytracer) Render(sampler core.Sampler) *image.RGBA {
	img, _ := rt.RenderWithStats(sampler)
	return img
}

// RenderWithStats is Render that also reports sampling statistics
func (rt *Raytracer) RenderWithStats(sampler core.Sampler) (*image.RGBA, RenderStats) {
	pixelStats := make([][]PixelStats, rt.height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, rt.width)
	}

	bounds := image.Rect(0, 0, rt.width, rt.height)
	stats := rt.tileRenderer.RenderTileBounds(bounds, pixelStats, sampler, rt.config.SamplesPerPixel)

	img := image.NewRGBA(bounds)
	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			img.SetRGBA(x, y, ColorToRGBA(pixelStats[y][x].GetColor()))
		}
	}

	return img, stats
}
