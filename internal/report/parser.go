package report

import (
	"errors"
	"fmt"

	"github.com/ironsheep/salesbot-ocr/internal/layout"
)

// ErrTableNotFound means no layout anchor matched the OCR text.
var ErrTableNotFound = errors.New("sales table not found")

// Table is the result of a successful parse.
type Table struct {
	Layout  layout.Layout
	Records []SalesRecord
}

// LayoutSource supplies the active layouts in match order. *layout.Registry
// satisfies it.
type LayoutSource interface {
	Layouts() []layout.Layout
}

// Parser turns OCR text into records using whichever layout matches first.
type Parser struct {
	source LayoutSource
}

// NewParser creates a parser over the given layouts.
func NewParser(source LayoutSource) *Parser {
	return &Parser{source: source}
}

// ParseTable tries every active layout in order and returns the records of
// the first one whose data region can be located. When none matches the
// error is ErrTableNotFound.
func (p *Parser) ParseTable(text string) (*Table, error) {
	for _, l := range p.source.Layouts() {
		records, ok := Parse(&l, text)
		if ok {
			return &Table{Layout: l, Records: records}, nil
		}
	}
	return nil, ErrTableNotFound
}

// ParseTableWith parses text with the named layout only.
func (p *Parser) ParseTableWith(name, text string) (*Table, error) {
	for _, l := range p.source.Layouts() {
		if l.Name != name {
			continue
		}
		records, ok := Parse(&l, text)
		if !ok {
			return nil, fmt.Errorf("layout %s: %w", name, ErrTableNotFound)
		}
		return &Table{Layout: l, Records: records}, nil
	}
	return nil, fmt.Errorf("unknown layout %q", name)
}

// Parse segments and reconstructs text with a single layout. The bool is
// false when the layout's anchor is not present.
func Parse(l *layout.Layout, text string) ([]SalesRecord, bool) {
	switch l.Mode {
	case layout.ModeLabelled:
		data, ok := SegmentLabelled(Tokens(text), l)
		if !ok {
			return nil, false
		}
		return ReconstructLabelled(data, l), true
	case layout.ModeLines:
		data, ok := SegmentLines(Lines(text), l)
		if !ok {
			return nil, false
		}
		return ReconstructLines(data, l), true
	default:
		data, ok := SegmentTokens(Tokens(text), l)
		if !ok {
			return nil, false
		}
		return ReconstructTokens(data, l), true
	}
}
