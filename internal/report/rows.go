package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ironsheep/salesbot-ocr/internal/layout"
)

// SalesRecord is one department row recovered from OCR text.
type SalesRecord struct {
	Department string          `json:"department"`
	Fields     []string        `json:"fields"`
	Sales      decimal.Decimal `json:"sales"`

	// Target is a target printed in the report itself, if the layout reads one.
	Target *decimal.Decimal `json:"target,omitempty"`
}

// Field returns the named cell, or "" if the layout has no such column.
func (r SalesRecord) Field(l *layout.Layout, column string) string {
	for i, c := range l.Columns {
		if c == column && i < len(r.Fields) {
			return r.Fields[i]
		}
	}
	return ""
}

// ReconstructTokens rebuilds rows from a flat data-region token stream. Every
// vocabulary code closes the row in progress and opens a new one. Tokens that
// arrive before the first code have no department and are dropped.
func ReconstructTokens(tokens []string, l *layout.Layout) []SalesRecord {
	var (
		records []SalesRecord
		acc     []string
	)
	flush := func() {
		if len(acc) > 0 && l.IsCode(acc[0]) {
			records = append(records, newRecord(acc[0], acc[1:], l))
		}
		acc = nil
	}

	for _, tok := range tokens {
		// OCR sometimes merges neighbouring cells into one token
		for _, sub := range strings.Fields(tok) {
			if l.IsCode(sub) && len(acc) > 0 {
				flush()
			}
			acc = append(acc, sub)
		}
	}
	flush()
	return records
}

// ReconstructLines rebuilds rows from one-cell-per-line output. A code line is
// followed by up to ColumnCount value lines; values may also share the code's
// line ("HW 12,500.00"). Only numeric cells count as values, so label lines
// such as "ยอดขาย" between a code and its figure are passed over.
func ReconstructLines(lines []string, l *layout.Layout) []SalesRecord {
	var records []SalesRecord
	for i := 0; i < len(lines); i++ {
		code, rest := splitCodeLine(lines[i], l)
		if code == "" {
			continue
		}
		cells := amountCells(rest)
		for len(cells) < l.ColumnCount() && i+1 < len(lines) {
			if next, _ := splitCodeLine(lines[i+1], l); next != "" {
				break
			}
			i++
			cells = append(cells, amountCells(strings.Fields(lines[i]))...)
		}
		records = append(records, newRecord(code, cells, l))
	}
	return records
}

// splitCodeLine returns the department code heading a line and the cells
// after it, or "" when the line does not start with a code.
func splitCodeLine(line string, l *layout.Layout) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	code := fields[0]
	if !l.CodePattern.MatchString(code) {
		return "", nil
	}
	if len(l.Vocabulary) > 0 && !l.IsCode(code) {
		return "", nil
	}
	return code, fields[1:]
}

func amountCells(fields []string) []string {
	var out []string
	for _, f := range fields {
		if _, ok := parseAmount(f); ok {
			out = append(out, f)
		}
	}
	return out
}

func newRecord(code string, cells []string, l *layout.Layout) SalesRecord {
	n := l.ColumnCount()
	fields := make([]string, n)
	for i := range fields {
		if i < len(cells) {
			fields[i] = cells[i]
		} else {
			fields[i] = l.Placeholder
		}
	}
	return SalesRecord{
		Department: code,
		Fields:     fields,
		Sales:      ParseAmount(fields[l.SalesIndex()]),
	}
}
