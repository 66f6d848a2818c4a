// Package report turns OCR text of a photographed sales table into
// per-department records and renders the daily target comparison.
//
// The pipeline runs in four pure stages:
//
//	raw text -> Tokens/Lines -> Segment -> Reconstruct -> Summarize/Format
//
// A layout.Layout drives every stage. The Parser tries each active layout in
// order and the first one whose anchor matches decides how rows are rebuilt.
//
// # Row Reconstruction
//
// OCR output does not preserve column alignment, so rows are not recovered as
// a grid. In tokens mode the department codes of the closed vocabulary are the
// only positional anchors: the token stream is split into one row per code and
// short rows are padded with the layout placeholder. In lines mode each code
// sits on its own line and its values follow on the next lines.
//
// # Numbers
//
// Monetary values are shopspring decimals. A cell that fails to parse counts
// as zero (ParseAmountOr) so one bad cell never blocks the rest of a report.
// Rendered amounts always use two decimals with English digit grouping.
//
// # Failure
//
// ErrTableNotFound is the only hard stop. Callers reply with
// Labels.NotFound rather than attempting to format noise.
//
// Nothing in this package blocks, logs, or holds state between calls.
package report
