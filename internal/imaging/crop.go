package imaging

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Crop extracts a rectangular region from an image, optionally scaling it.
// A scale of 1 (or any value <= 0) keeps the cropped size.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (image.Image, error) {
	bounds := img.Bounds()

	// Validate coordinates
	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}
	return cropped, nil
}

// CropRect is Crop over an image.Rectangle.
func CropRect(img image.Image, r image.Rectangle, scale float64) (image.Image, error) {
	return Crop(img, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, scale)
}

// Upscale enlarges img proportionally so it is at least minWidth pixels
// wide. Images that are already wide enough are returned unchanged.
func Upscale(img image.Image, minWidth int) image.Image {
	w := img.Bounds().Dx()
	if minWidth <= 0 || w >= minWidth {
		return img
	}
	// Height 0 keeps the aspect ratio
	return imaging.Resize(img, minWidth, 0, imaging.Lanczos)
}

// EncodePNG encodes img as PNG, the lossless format OCR engines prefer.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
