package imaging

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// LuminanceStats describes the perceptual brightness of an image.
//
// Values are CIE-Lab lightness scaled to 0-100:
//   - 0 is black
//   - 100 is white
type LuminanceStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`

	// Samples is the number of pixels measured.
	Samples int `json:"samples"`
}

// Dark reports whether the image is mostly dark, as with photos of a screen
// in dark mode. Such images read better inverted.
func (s LuminanceStats) Dark() bool {
	return s.Samples > 0 && s.Mean < 40
}

// LowContrast reports whether the lightness spread is narrow.
func (s LuminanceStats) LowContrast() bool {
	return s.Samples > 0 && s.StdDev < 15
}

// maxSamples caps the pixels read by MeasureLuminance.
const maxSamples = 250_000

// MeasureLuminance samples img on a regular grid and summarises its
// lightness. Large images are subsampled so the cost stays bounded.
func MeasureLuminance(img image.Image) LuminanceStats {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return LuminanceStats{}
	}

	step := 1
	for (w/step)*(h/step) > maxSamples {
		step++
	}

	var (
		n         int
		sum, sq   float64
		low, high = math.Inf(1), math.Inf(-1)
	)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				// Fully transparent pixels carry no colour
				continue
			}
			l, _, _ := c.Lab()
			l *= 100
			n++
			sum += l
			sq += l * l
			low = math.Min(low, l)
			high = math.Max(high, l)
		}
	}
	if n == 0 {
		return LuminanceStats{}
	}

	mean := sum / float64(n)
	variance := math.Max(sq/float64(n)-mean*mean, 0)
	return LuminanceStats{
		Mean:    round2(mean),
		StdDev:  round2(math.Sqrt(variance)),
		Min:     round2(low),
		Max:     round2(high),
		Samples: n,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
