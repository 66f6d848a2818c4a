// Package layout describes OCR sales-table variants as data.
//
// A photographed sales report reaches the bot as noisy OCR text. Different
// stores print different tables, but each variant can be captured by the same
// handful of facts:
//
//   - Anchor: the header marker that precedes the data, how many header fields
//     to skip, and optional start/stop markers
//   - Vocabulary: the closed set of department codes that delimit rows
//   - Columns: the cells following each code, and which one holds sales
//   - Groups: the fixed partition of departments used by the summary
//   - Mode: whether rows are rebuilt from a flat token stream or from
//     one-cell-per-line output
//
// # Sources
//
// Builtin returns the compiled-in variants. LoadFile reads additional variants
// from YAML. A Registry holds the active ordered set; the report parser tries
// layouts in that order and the first anchor that matches wins.
//
// # Hot Reload
//
// Watcher observes the layouts file with fsnotify and swaps the registry
// contents after each save. An invalid file is logged and ignored so a typo
// never takes the bot down.
package layout
