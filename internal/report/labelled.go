package report

import (
	"iter"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/ironsheep/salesbot-ocr/internal/layout"
)

// SegmentLabelled returns the tokens from the first department keyword up to
// the first stop token. A configured header must appear before it.
func SegmentLabelled(tokens iter.Seq[string], l *layout.Layout) ([]string, bool) {
	toks := slices.Collect(tokens)

	from := 0
	if l.Anchor.Header != "" {
		i := slices.IndexFunc(toks, func(t string) bool {
			return strings.EqualFold(t, l.Anchor.Header)
		})
		if i < 0 {
			return nil, false
		}
		from = i + 1
	}

	dept := norm.NFC.String(l.DepartmentLabel)
	isStart := func(t string) bool {
		return strings.HasPrefix(t, dept)
	}
	return region(toks, from, isStart, l.IsStop)
}

// ReconstructLabelled rebuilds rows from keyword-labelled text. The token
// after the department keyword is the code; the first amount after a field
// keyword is that field's value. Keywords glued to their value by OCR
// ("แผนกHW", "ยอดวันนี้12500") are split. When the layout has a target
// column and the text carries a value for it, the record's Target is set.
func ReconstructLabelled(tokens []string, l *layout.Layout) []SalesRecord {
	dept := norm.NFC.String(l.DepartmentLabel)
	type fieldKey struct {
		label  string
		column int
	}
	keys := make([]fieldKey, len(l.FieldLabels))
	for i, f := range l.FieldLabels {
		keys[i] = fieldKey{norm.NFC.String(f.Label), slices.Index(l.Columns, f.Column)}
	}
	// longest first, so a keyword that extends another wins
	slices.SortStableFunc(keys, func(a, b fieldKey) int {
		return len(b.label) - len(a.label)
	})
	targetIdx := -1
	if l.TargetColumn != "" {
		targetIdx = slices.Index(l.Columns, l.TargetColumn)
	}

	var (
		records []SalesRecord
		code    string
		cells   []string
		found   []bool
		pending = -1
	)
	flush := func() {
		if code == "" {
			return
		}
		if len(l.Vocabulary) == 0 || l.IsCode(code) {
			for i := range cells {
				if !found[i] {
					cells[i] = l.Placeholder
				}
			}
			r := newRecord(code, cells, l)
			if targetIdx >= 0 && found[targetIdx] {
				t := ParseAmount(cells[targetIdx])
				r.Target = &t
			}
			records = append(records, r)
		}
		code = ""
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if rest, ok := strings.CutPrefix(tok, dept); ok {
			flush()
			rest = strings.TrimLeft(rest, ":")
			if rest == "" {
				if i+1 >= len(tokens) {
					break
				}
				i++
				rest = tokens[i]
			}
			code = strings.ToUpper(rest)
			cells = make([]string, l.ColumnCount())
			found = make([]bool, l.ColumnCount())
			pending = -1
			continue
		}
		if code == "" {
			continue
		}

		for _, k := range keys {
			if rest, ok := strings.CutPrefix(tok, k.label); ok {
				pending = k.column
				tok = rest
				break
			}
		}
		if pending < 0 || tok == "" {
			continue
		}
		value := strings.TrimSuffix(tok, "บาท")
		if _, ok := parseAmount(value); ok && !found[pending] {
			cells[pending] = value
			found[pending] = true
			pending = -1
		}
	}
	flush()
	return records
}

// InlineTargets collects the targets printed next to the sales, keeping the
// first one seen per department.
func InlineTargets(records []SalesRecord) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, r := range records {
		if r.Target == nil {
			continue
		}
		if _, ok := out[r.Department]; !ok {
			out[r.Department] = *r.Target
		}
	}
	return out
}
