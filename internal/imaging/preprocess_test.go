package imaging

import (
	"image"
	"image/color"
	"slices"
	"testing"
)

func TestPrepare_NoSteps(t *testing.T) {
	img := createInMemoryImage(40, 20, color.White)

	res := Prepare(img, Options{})
	if res.Image != image.Image(img) {
		t.Error("expected the input image when every step is disabled")
	}
	if len(res.Steps) != 0 || res.Inverted || res.Region != nil {
		t.Errorf("unexpected processing: %+v", res)
	}
	if res.Luminance.Samples == 0 {
		t.Error("luminance should always be measured")
	}
}

func TestPrepare_DarkImage(t *testing.T) {
	img := createInMemoryImage(100, 50, color.Black)

	res := Prepare(img, DefaultOptions())
	if !res.Inverted {
		t.Error("expected dark image to be inverted")
	}
	for _, step := range []string{"invert", "grayscale", "contrast", "upscale", "sharpen"} {
		if !slices.Contains(res.Steps, step) {
			t.Errorf("missing step %q in %v", step, res.Steps)
		}
	}
	if res.Image.Bounds().Dx() != 1600 {
		t.Errorf("expected upscaling to 1600px, got %d", res.Image.Bounds().Dx())
	}

	// Inverted black is white
	r, g, b, _ := res.Image.At(800, 400).RGBA()
	if r>>8 < 200 || g>>8 < 200 || b>>8 < 200 {
		t.Errorf("expected a light pixel after inversion, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}

	// Input untouched
	r, _, _, _ = img.At(10, 10).RGBA()
	if r != 0 {
		t.Error("input image was modified")
	}
}

func TestPrepare_CropsToTable(t *testing.T) {
	img := createInMemoryImage(300, 200, color.White)
	// A block of dark strokes in the upper left
	for y := 20; y < 80; y += 10 {
		for x := 20; x < 140; x++ {
			if x%15 < 5 {
				img.Set(x, y, color.Black)
				img.Set(x, y+1, color.Black)
				img.Set(x, y+5, color.Black)
			}
		}
	}

	res := Prepare(img, Options{CropTable: true})
	if res.Region == nil {
		t.Fatal("expected a table region")
	}
	if !slices.Contains(res.Steps, "crop") {
		t.Errorf("missing crop step in %v", res.Steps)
	}
	if res.Image.Bounds().Dx() >= 300 || res.Image.Bounds().Dy() >= 200 {
		t.Errorf("expected a smaller image after cropping, got %v", res.Image.Bounds())
	}
}

func TestPrepare_ContrastOnlyWhenFlat(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)
	for y := 0; y < 100; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.Black)
		}
	}

	res := Prepare(img, Options{Contrast: 0.3})
	if slices.Contains(res.Steps, "contrast") {
		t.Errorf("high contrast image should not be adjusted: %v", res.Steps)
	}

	flat := createInMemoryImage(100, 100, color.Gray{Y: 128})
	res = Prepare(flat, Options{Contrast: 0.3})
	if !slices.Contains(res.Steps, "contrast") {
		t.Errorf("flat image should be adjusted: %v", res.Steps)
	}
}
