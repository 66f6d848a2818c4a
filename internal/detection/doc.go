// Package detection locates the sales table inside a photographed report.
//
// Phone photos of printed reports carry a lot of background: the desk, the
// receipt edges, a thumb. OCR engines read noticeably better when they are
// handed only the printed table, so the bot crops to it before recognition.
//
// # Algorithm
//
// TableRegion works on an edge map rather than on colours:
//
//  1. Sobel edge magnitude, thresholded into a binary map
//  2. Per-row edge counts; rows above a small fraction of the width are active
//  3. Active rows separated by short gaps are joined into bands and the band
//     with the most edge pixels wins
//  4. The same is done for columns, counting only inside the winning rows
//  5. The box is padded and clamped to the image
//
// Printed text produces dense, regular edges, so the table dominates the
// edge mass even when the background has a few strong lines.
//
// # Coordinate System
//
// Bounds use the image convention: origin at the top-left corner, (X1, Y1)
// inclusive and (X2, Y2) exclusive, expressed in the source image's space.
package detection
