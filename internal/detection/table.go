package detection

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// Rect converts b to an image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Area is the number of pixels inside b.
func (b Bounds) Area() int {
	if b.X2 <= b.X1 || b.Y2 <= b.Y1 {
		return 0
	}
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// Options tunes TableRegion. Zero fields take the DefaultOptions value.
type Options struct {
	// EdgeThreshold is the minimum Sobel magnitude (0-255) counted as an edge.
	EdgeThreshold uint8

	// MinLineFraction is the share of a row (or column) that must be edges
	// for it to count as part of the table.
	MinLineFraction float64

	// MaxGapFraction is the longest run of empty rows (or columns), as a
	// share of the image height (or width), that still joins two bands.
	MaxGapFraction float64

	// Padding is added on every side of the detected box, in pixels.
	Padding int

	// MinAreaFraction rejects boxes smaller than this share of the image.
	MinAreaFraction float64
}

// DefaultOptions returns settings that suit phone photos of printed tables.
func DefaultOptions() Options {
	return Options{
		EdgeThreshold:   64,
		MinLineFraction: 0.01,
		MaxGapFraction:  0.05,
		Padding:         8,
		MinAreaFraction: 0.02,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.EdgeThreshold == 0 {
		o.EdgeThreshold = d.EdgeThreshold
	}
	if o.MinLineFraction <= 0 {
		o.MinLineFraction = d.MinLineFraction
	}
	if o.MaxGapFraction <= 0 {
		o.MaxGapFraction = d.MaxGapFraction
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.MinAreaFraction <= 0 {
		o.MinAreaFraction = d.MinAreaFraction
	}
	return o
}

// Region is a detected table area.
type Region struct {
	Bounds Bounds `json:"bounds"`

	// Coverage is the share of the image inside Bounds (0-1).
	Coverage float64 `json:"coverage"`

	// EdgeDensity is the share of edge pixels inside the unpadded box (0-1).
	EdgeDensity float64 `json:"edge_density"`
}

// TableRegion finds the densest block of printed content in img. The bool is
// false for blank images and for boxes below MinAreaFraction.
func TableRegion(img image.Image, opts Options) (Region, bool) {
	opts = opts.withDefaults()

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return Region{}, false
	}

	edges := EdgeMap(img, opts.EdgeThreshold)

	rows := make([]int, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges[y][x] {
				rows[y]++
			}
		}
	}
	y1, y2, ok := densestBand(rows, minCount(width, opts.MinLineFraction), gap(height, opts.MaxGapFraction))
	if !ok {
		return Region{}, false
	}

	cols := make([]int, width)
	for y := y1; y < y2; y++ {
		for x := 0; x < width; x++ {
			if edges[y][x] {
				cols[x]++
			}
		}
	}
	x1, x2, ok := densestBand(cols, minCount(y2-y1, opts.MinLineFraction), gap(width, opts.MaxGapFraction))
	if !ok {
		return Region{}, false
	}

	edgeCount := 0
	for x := x1; x < x2; x++ {
		edgeCount += cols[x]
	}
	inner := (x2 - x1) * (y2 - y1)

	b := Bounds{
		X1: max(x1-opts.Padding, 0) + bounds.Min.X,
		Y1: max(y1-opts.Padding, 0) + bounds.Min.Y,
		X2: min(x2+opts.Padding, width) + bounds.Min.X,
		Y2: min(y2+opts.Padding, height) + bounds.Min.Y,
	}
	coverage := float64(b.Area()) / float64(width*height)
	if coverage < opts.MinAreaFraction {
		return Region{}, false
	}

	return Region{
		Bounds:      b,
		Coverage:    coverage,
		EdgeDensity: float64(edgeCount) / float64(inner),
	}, true
}

// EdgeMap returns a [y][x] edge mask relative to the image origin.
func EdgeMap(img image.Image, threshold uint8) [][]bool {
	bin := segment.Threshold(effect.Sobel(img), threshold)
	b := bin.Bounds()

	edges := make([][]bool, b.Dy())
	for y := 0; y < b.Dy(); y++ {
		edges[y] = make([]bool, b.Dx())
		for x := 0; x < b.Dx(); x++ {
			edges[y][x] = bin.GrayAt(b.Min.X+x, b.Min.Y+y).Y > 0
		}
	}
	return edges
}

// densestBand joins active entries of profile separated by at most maxGap
// inactive ones, and returns the half-open span with the largest total.
func densestBand(profile []int, minCount, maxGap int) (int, int, bool) {
	bestStart, bestEnd, bestMass := 0, 0, 0
	start, last, mass := -1, -1, 0

	closeBand := func() {
		if start >= 0 && mass > bestMass {
			bestStart, bestEnd, bestMass = start, last+1, mass
		}
	}

	for i, n := range profile {
		if n < minCount {
			continue
		}
		if start >= 0 && i-last-1 > maxGap {
			closeBand()
			start, mass = -1, 0
		}
		if start < 0 {
			start = i
		}
		last = i
		mass += n
	}
	closeBand()

	return bestStart, bestEnd, bestMass > 0
}

func minCount(length int, fraction float64) int {
	return max(1, int(float64(length)*fraction))
}

func gap(length int, fraction float64) int {
	return int(float64(length) * fraction)
}
