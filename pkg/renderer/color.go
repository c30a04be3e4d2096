package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// maxChannel keeps 256*c below 256 so the truncated value fits a byte
const maxChannel = 0.999

// ToByte gamma-corrects a linear channel value with a square root and scales it to [0, 255]
func ToByte(c float64) uint8 {
	v := math.Sqrt(math.Max(0, c))
	v = math.Min(v, maxChannel)
	return uint8(256 * v)
}

// ColorToRGBA converts an averaged linear color to an opaque 8-bit pixel
func ColorToRGBA(c core.Color) color.RGBA {
	return color.RGBA{
		R: ToByte(c.X),
		G: ToByte(c.Y),
		B: ToByte(c.Z),
		A: 255,
	}
}
