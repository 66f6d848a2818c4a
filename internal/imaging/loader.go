package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// MaxPixels bounds the decoded size of an image. Larger inputs are rejected
// before their pixels are allocated.
const MaxPixels = 40_000_000

// ImageInfo contains metadata about an encoded image.
type ImageInfo struct {
	// Width is the image width in pixels, before orientation is applied.
	Width int `json:"width"`

	// Height is the image height in pixels, before orientation is applied.
	Height int `json:"height"`

	// Format is the registered decoder name: "png", "jpeg", "gif" or "webp".
	Format string `json:"format"`

	// SizeBytes is the length of the encoded data.
	SizeBytes int `json:"size_bytes"`
}

// Inspect reads the image header without decoding pixels.
//
// # Errors
//
//   - Returns error if the data is not a PNG, JPEG, GIF or WebP image
//   - Returns error if the image exceeds MaxPixels
func Inspect(data []byte) (*ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has no pixels (%dx%d)", cfg.Width, cfg.Height)
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, MaxPixels)
	}
	return &ImageInfo{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Format:    format,
		SizeBytes: len(data),
	}, nil
}

// Decode checks the header with Inspect and decodes the image, rotating it
// according to its EXIF orientation tag. Phone cameras usually store the
// sensor orientation and rely on that tag.
func Decode(data []byte) (image.Image, *ImageInfo, error) {
	info, err := Inspect(data)
	if err != nil {
		return nil, nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, info, nil
}

// Load reads and decodes an image file.
func Load(path string) (image.Image, *ImageInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}
	return Decode(data)
}
