package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/salesbot-ocr/internal/detection"
)

// Options selects the preprocessing steps applied by Prepare.
type Options struct {
	// CropTable crops to the detected table region.
	CropTable bool `toml:"crop_table"`

	// AutoInvert inverts predominantly dark photos.
	AutoInvert bool `toml:"auto_invert"`

	// Grayscale drops colour information.
	Grayscale bool `toml:"grayscale"`

	// Contrast is the bild contrast change (-1 to 1) applied to low-contrast
	// images. Zero disables it.
	Contrast float64 `toml:"contrast"`

	// MinWidth upscales narrower images. Zero disables it.
	MinWidth int `toml:"min_width"`

	// Sharpen applies a final sharpening pass.
	Sharpen bool `toml:"sharpen"`
}

// DefaultOptions enables every step with settings tuned for phone photos of
// printed reports.
func DefaultOptions() Options {
	return Options{
		CropTable:  true,
		AutoInvert: true,
		Grayscale:  true,
		Contrast:   0.3,
		MinWidth:   1600,
		Sharpen:    true,
	}
}

// Result is a prepared image and what was done to it.
type Result struct {
	Image     image.Image
	Luminance LuminanceStats

	// Region is the table box in source coordinates, when cropping ran.
	Region *detection.Region

	Inverted bool
	Steps    []string
}

// Prepare runs the preprocessing chain over img. The input is not modified.
func Prepare(img image.Image, opts Options) *Result {
	res := &Result{Image: img}

	if opts.CropTable {
		if region, ok := detection.TableRegion(img, detection.DefaultOptions()); ok {
			if cropped, err := CropRect(img, region.Bounds.Rect(), 1); err == nil {
				res.Image = cropped
				res.Region = &region
				res.Steps = append(res.Steps, "crop")
			}
		}
	}

	res.Luminance = MeasureLuminance(res.Image)

	if opts.AutoInvert && res.Luminance.Dark() {
		res.Image = imaging.Invert(res.Image)
		res.Inverted = true
		res.Steps = append(res.Steps, "invert")
	}
	if opts.Grayscale {
		res.Image = imaging.Grayscale(res.Image)
		res.Steps = append(res.Steps, "grayscale")
	}
	if opts.Contrast != 0 && res.Luminance.LowContrast() {
		res.Image = adjust.Contrast(res.Image, opts.Contrast)
		res.Steps = append(res.Steps, "contrast")
	}
	if opts.MinWidth > 0 && res.Image.Bounds().Dx() < opts.MinWidth {
		res.Image = Upscale(res.Image, opts.MinWidth)
		res.Steps = append(res.Steps, "upscale")
	}
	if opts.Sharpen {
		res.Image = effect.Sharpen(res.Image)
		res.Steps = append(res.Steps, "sharpen")
	}
	return res
}
