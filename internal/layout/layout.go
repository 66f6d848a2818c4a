package layout

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Mode selects how a layout's data region is turned into rows.
type Mode string

const (
	// ModeTokens walks a flat token stream and splits rows at department codes.
	ModeTokens Mode = "tokens"

	// ModeLines scans one cell per line: a code line followed by its value lines.
	ModeLines Mode = "lines"

	// ModeLabelled reads free text where a department keyword precedes each
	// code and a keyword precedes every value, e.g.
	// "แผนก HW ยอดวันนี้ 12500 ยอดที่ต้องการ 10000".
	ModeLabelled Mode = "labelled"
)

// DefaultPlaceholder pads rows that are shorter than the column count.
const DefaultPlaceholder = "0"

// defaultCodePattern matches a single department code on its own line.
var defaultCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)

var alphaCode = regexp.MustCompile(`^[A-Za-z]+$`)

// Anchor locates the start of the data region inside OCR text.
type Anchor struct {
	// Header is the table-header marker. In tokens mode it must equal a whole
	// token; in lines mode a line must contain it. Empty means "no header".
	Header string

	// HeaderSkip is the number of header fields following Header that are
	// skipped before looking for data. A department code ends the skip early.
	HeaderSkip int

	// Start optionally overrides the start-of-data test. When nil, the first
	// vocabulary code (tokens mode) or code line (lines mode) starts the data.
	Start *regexp.Regexp

	// Stop lists tokens (or line prefixes) that end the data region, such as
	// a trailing TOTAL row.
	Stop []string
}

// FieldLabel ties a column to the keyword that precedes its value in
// labelled mode.
type FieldLabel struct {
	Column string
	Label  string
}

// Group is one named block of departments in the summary.
type Group struct {
	Name  string
	Codes []string
}

// Layout describes one OCR table variant as data.
type Layout struct {
	Name   string
	Mode   Mode
	Anchor Anchor

	// Vocabulary is the closed set of department codes, in report order.
	Vocabulary []string

	// Columns names the cells that follow a department code.
	Columns []string

	// SalesColumn is the column holding the numeric sales figure.
	SalesColumn string

	// CodePattern recognises a code line in lines mode.
	CodePattern *regexp.Regexp

	// DepartmentLabel opens a record in labelled mode; the department code
	// follows it.
	DepartmentLabel string

	// FieldLabels lists the value keywords of labelled mode.
	FieldLabels []FieldLabel

	// TargetColumn, when set, holds a target printed next to the sales. It is
	// used for departments the target store has no entry for.
	TargetColumn string

	Groups      []Group
	GroupTotals bool
	Placeholder string

	vocab map[string]struct{}
}

// Validate checks the layout and fills defaults. It must be called before
// the layout is handed to a parser.
func (l *Layout) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("layout name is required")
	}
	switch l.Mode {
	case ModeTokens, ModeLines, ModeLabelled:
	case "":
		l.Mode = ModeTokens
	default:
		return fmt.Errorf("layout %s: unknown mode %q", l.Name, l.Mode)
	}
	if l.Anchor.HeaderSkip < 0 {
		return fmt.Errorf("layout %s: header_skip must not be negative", l.Name)
	}
	if l.Mode == ModeTokens && len(l.Vocabulary) == 0 {
		return fmt.Errorf("layout %s: tokens mode requires a vocabulary", l.Name)
	}

	if l.Mode == ModeLabelled {
		if err := l.validateLabels(); err != nil {
			return err
		}
	}

	l.vocab = make(map[string]struct{}, len(l.Vocabulary))
	for _, code := range l.Vocabulary {
		if !alphaCode.MatchString(code) {
			return fmt.Errorf("layout %s: department code %q must be alphabetic", l.Name, code)
		}
		if _, dup := l.vocab[code]; dup {
			return fmt.Errorf("layout %s: duplicate department code %q", l.Name, code)
		}
		l.vocab[code] = struct{}{}
	}

	if len(l.Columns) == 0 {
		return fmt.Errorf("layout %s: at least one column is required", l.Name)
	}
	if l.SalesColumn == "" {
		l.SalesColumn = l.Columns[len(l.Columns)-1]
	}
	if l.SalesIndex() < 0 {
		return fmt.Errorf("layout %s: sales column %q is not one of %v", l.Name, l.SalesColumn, l.Columns)
	}

	if l.TargetColumn != "" && !slices.Contains(l.Columns, l.TargetColumn) {
		return fmt.Errorf("layout %s: target column %q is not one of %v", l.Name, l.TargetColumn, l.Columns)
	}

	if l.CodePattern == nil {
		l.CodePattern = defaultCodePattern
	}
	if l.Placeholder == "" {
		l.Placeholder = DefaultPlaceholder
	}

	seen := make(map[string]string)
	for _, g := range l.Groups {
		for _, code := range g.Codes {
			if len(l.vocab) > 0 && !l.IsCode(code) {
				return fmt.Errorf("layout %s: group %q uses unknown code %q", l.Name, g.Name, code)
			}
			if other, ok := seen[code]; ok {
				return fmt.Errorf("layout %s: code %q is in both %q and %q", l.Name, code, other, g.Name)
			}
			seen[code] = g.Name
		}
	}
	return nil
}

func (l *Layout) validateLabels() error {
	if !isKeyword(l.DepartmentLabel) {
		return fmt.Errorf("layout %s: labelled mode requires a single-word department_label", l.Name)
	}
	if len(l.FieldLabels) == 0 {
		return fmt.Errorf("layout %s: labelled mode requires field labels", l.Name)
	}
	derive := len(l.Columns) == 0
	for _, f := range l.FieldLabels {
		if f.Column == "" || !isKeyword(f.Label) {
			return fmt.Errorf("layout %s: field label %q for column %q must be a single word", l.Name, f.Label, f.Column)
		}
		if derive {
			l.Columns = append(l.Columns, f.Column)
		} else if !slices.Contains(l.Columns, f.Column) {
			return fmt.Errorf("layout %s: field label column %q is not one of %v", l.Name, f.Column, l.Columns)
		}
	}
	return nil
}

func isKeyword(s string) bool {
	return s != "" && len(strings.Fields(s)) == 1 && strings.TrimSpace(s) == s
}

// IsCode reports whether s belongs to the department vocabulary.
func (l *Layout) IsCode(s string) bool {
	if l.vocab == nil {
		return slices.Contains(l.Vocabulary, s)
	}
	_, ok := l.vocab[s]
	return ok
}

// ColumnCount is the fixed number of cells per row, excluding the code.
func (l *Layout) ColumnCount() int {
	return len(l.Columns)
}

// SalesIndex is the position of SalesColumn within Columns, or -1.
func (l *Layout) SalesIndex() int {
	return slices.Index(l.Columns, l.SalesColumn)
}

// IsStop reports whether a token or line ends the data region.
func (l *Layout) IsStop(s string) bool {
	for _, stop := range l.Anchor.Stop {
		if stop != "" && strings.HasPrefix(strings.ToUpper(s), strings.ToUpper(stop)) {
			return true
		}
	}
	return false
}

// Partition returns the fixed group partition. Without configured groups the
// whole vocabulary forms a single unnamed group; without a vocabulary the
// codes seen are used in order of first appearance.
func (l *Layout) Partition(seen []string) []Group {
	if len(l.Groups) > 0 {
		return l.Groups
	}
	if len(l.Vocabulary) > 0 {
		return []Group{{Codes: l.Vocabulary}}
	}
	var codes []string
	for _, code := range seen {
		if !slices.Contains(codes, code) {
			codes = append(codes, code)
		}
	}
	return []Group{{Codes: codes}}
}
