package renderer

import (
	"image"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int     // Total number of pixels rendered
	TotalSamples    int     // Total number of samples taken
	AverageSamples  float64 // Average samples per pixel
	MaxSamples      int     // Target samples per pixel for the pass
	MinSamples      int     // Minimum samples taken per pixel
	MaxSamplesUsed  int     // Maximum samples actually used by any pixel
	AverageVariance float64 // Mean luminance variance of the per-pixel estimates
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for convergence
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// Variance returns the luminance variance between individual samples
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	meanSq := ps.LuminanceSqAccum / n
	return math.Max(0, meanSq-mean*mean)
}

// MeanVariance returns the variance of the pixel's averaged estimate,
// which falls as 1/N with the sample count
func (ps *PixelStats) MeanVariance() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	return ps.Variance() / float64(ps.SampleCount)
}

// newRenderStats starts statistics for pixelCount pixels at the given target
func newRenderStats(pixelCount, targetSamples int) RenderStats {
	return RenderStats{
		TotalPixels: pixelCount,
		MaxSamples:  targetSamples,
		MinSamples:  math.MaxInt,
	}
}

// addPixel folds one pixel's sample count and estimate variance into the statistics
func (stats *RenderStats) addPixel(samplesUsed int, meanVariance float64) {
	stats.TotalSamples += samplesUsed
	stats.MinSamples = min(stats.MinSamples, samplesUsed)
	stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
	stats.AverageVariance += meanVariance
}

// finalize calculates averages after all pixels are counted
func (stats *RenderStats) finalize() {
	if stats.TotalPixels == 0 {
		stats.MinSamples = 0
		return
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	stats.AverageVariance /= float64(stats.TotalPixels)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an 8-bit image in [0, 1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255.0
		}
	}
	return total / float64(pixels)
}
