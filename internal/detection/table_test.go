package detection

import (
	"image"
	"image/color"
	"testing"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createTextPatternImage creates an image with text-like edge patterns
func createTextPatternImage(width, height int) *image.RGBA {
	img := createTestImage(width, height, color.White)

	for y := 20; y < 80; y += 10 {
		for x := 20; x < width-20; x++ {
			// Simulate letter shapes (vertical strokes)
			if x%15 < 5 {
				img.Set(x, y, color.Black)
				img.Set(x, y+1, color.Black)
				img.Set(x, y+5, color.Black)
			}
		}
	}
	return img
}

func TestTableRegion(t *testing.T) {
	img := createTextPatternImage(200, 150)

	region, ok := TableRegion(img, DefaultOptions())
	if !ok {
		t.Fatal("expected a table region")
	}

	core := image.Rect(25, 25, 175, 70)
	if !core.In(region.Bounds.Rect()) {
		t.Errorf("region %v does not cover the printed block %v", region.Bounds, core)
	}
	if !region.Bounds.Rect().In(img.Bounds()) {
		t.Errorf("region %v exceeds image bounds", region.Bounds)
	}
	if region.Coverage <= 0 || region.Coverage > 1 {
		t.Errorf("coverage out of range: %f", region.Coverage)
	}
	if region.EdgeDensity <= 0 || region.EdgeDensity > 1 {
		t.Errorf("edge density out of range: %f", region.EdgeDensity)
	}
}

func TestTableRegion_IgnoresDistantSpeck(t *testing.T) {
	img := createTextPatternImage(200, 150)
	img.Set(195, 145, color.Black)

	region, ok := TableRegion(img, DefaultOptions())
	if !ok {
		t.Fatal("expected a table region")
	}
	if region.Bounds.Y2 >= 140 {
		t.Errorf("region %v should stop above the speck", region.Bounds)
	}
}

func TestTableRegion_Blank(t *testing.T) {
	img := createTestImage(200, 150, color.White)

	if region, ok := TableRegion(img, DefaultOptions()); ok {
		t.Errorf("expected no region in a blank image, got %v", region.Bounds)
	}
}

func TestTableRegion_TooSmall(t *testing.T) {
	img := createTestImage(200, 150, color.White)
	img.Set(100, 75, color.Black)

	if region, ok := TableRegion(img, DefaultOptions()); ok {
		t.Errorf("expected a lone speck to be rejected, got %v", region.Bounds)
	}
}

func TestTableRegion_OffsetImage(t *testing.T) {
	base := createTextPatternImage(200, 150)
	sub := base.SubImage(image.Rect(10, 10, 200, 150))

	region, ok := TableRegion(sub, Options{})
	if !ok {
		t.Fatal("expected a table region")
	}
	if !region.Bounds.Rect().In(sub.Bounds()) {
		t.Errorf("region %v should be expressed in the sub-image space %v", region.Bounds, sub.Bounds())
	}
}

func TestDensestBand(t *testing.T) {
	tests := []struct {
		name      string
		profile   []int
		minCount  int
		maxGap    int
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{"empty", nil, 1, 0, 0, 0, false},
		{"all below minimum", []int{1, 1, 1}, 2, 0, 0, 0, false},
		{"single band", []int{0, 3, 4, 0}, 1, 0, 1, 3, true},
		{"gap joins", []int{5, 0, 5}, 1, 1, 0, 3, true},
		{"gap splits, heavier wins", []int{1, 0, 0, 9, 9}, 1, 1, 3, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := densestBand(tt.profile, tt.minCount, tt.maxGap)
			if ok != tt.wantOK || (ok && (start != tt.wantStart || end != tt.wantEnd)) {
				t.Errorf("densestBand = (%d, %d, %v), want (%d, %d, %v)",
					start, end, ok, tt.wantStart, tt.wantEnd, tt.wantOK)
			}
		})
	}
}

func TestBounds_Area(t *testing.T) {
	if got := (Bounds{X1: 1, Y1: 1, X2: 4, Y2: 3}).Area(); got != 6 {
		t.Errorf("expected area 6, got %d", got)
	}
	if got := (Bounds{X1: 4, Y1: 1, X2: 1, Y2: 3}).Area(); got != 0 {
		t.Errorf("expected area 0 for inverted bounds, got %d", got)
	}
}
