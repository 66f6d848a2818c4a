// Package imaging prepares report photos for OCR.
//
// Images arrive as raw bytes from the chat platform or from disk. This package
// decodes them (PNG, JPEG, GIF, WebP) with EXIF orientation applied, measures
// their brightness, and runs the preprocessing chain that makes printed
// figures easier for Tesseract to read.
//
// # Preprocessing
//
// Prepare applies, in order:
//
//  1. Crop to the table region found by the detection package
//  2. Inversion when the photo is predominantly dark (screens, dark mode)
//  3. Grayscale
//  4. Contrast boost when the luminance spread is narrow
//  5. Upscaling of small images to a minimum width
//  6. Sharpening
//
// Each step can be switched off through Options. All operations return new
// images and never modify their input.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner. For
// regions, (x1,y1) is inclusive and (x2,y2) is exclusive.
package imaging
