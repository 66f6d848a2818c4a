package report

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/ironsheep/salesbot-ocr/internal/layout"
	"github.com/ironsheep/salesbot-ocr/internal/targets"
)

// Line is the target comparison for one department, or for a whole group
// when used as a group total.
type Line struct {
	Code   string          `json:"code"`
	Target decimal.Decimal `json:"target"`
	Actual decimal.Decimal `json:"actual"`
	Diff   decimal.Decimal `json:"diff"`
}

// GroupSummary is one block of the report.
type GroupSummary struct {
	Name  string `json:"name,omitempty"`
	Lines []Line `json:"lines"`
	Total *Line  `json:"total,omitempty"`
}

// Summary is the aggregated, not yet rendered, report.
type Summary struct {
	Layout  string         `json:"layout"`
	Records int            `json:"records"`
	Groups  []GroupSummary `json:"groups"`
}

// Empty reports whether no records went into the summary.
func (s Summary) Empty() bool {
	return s.Records == 0
}

// Actuals sums sales per department. Repeated rows for the same code (such
// as separate sub-total lines) add up rather than overwrite each other.
func Actuals(records []SalesRecord) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(records))
	for _, r := range records {
		out[r.Department] = out[r.Department].Add(r.Sales)
	}
	return out
}

// Summarize compares records against targets following the layout's group
// partition. Every department of the partition is listed, including those
// with neither sales nor a target. Codes outside the partition are collected
// in a trailing unnamed group. A target printed in the report is used only
// for departments t has no entry for.
func Summarize(l *layout.Layout, records []SalesRecord, t targets.Map) Summary {
	s := Summary{Layout: l.Name, Records: len(records)}
	if len(records) == 0 {
		return s
	}
	t = withInlineTargets(t, records)

	actual := Actuals(records)
	seen := make([]string, 0, len(records))
	for _, r := range records {
		seen = append(seen, r.Department)
	}

	listed := make(map[string]bool)
	for _, g := range l.Partition(seen) {
		s.Groups = append(s.Groups, summarizeGroup(g.Name, g.Codes, actual, t, l.GroupTotals && g.Name != ""))
		for _, code := range g.Codes {
			listed[code] = true
		}
	}

	var rest []string
	for _, code := range seen {
		if !listed[code] && !slices.Contains(rest, code) {
			rest = append(rest, code)
		}
	}
	if len(rest) > 0 {
		s.Groups = append(s.Groups, summarizeGroup("", rest, actual, t, false))
	}
	return s
}

func withInlineTargets(t targets.Map, records []SalesRecord) targets.Map {
	inline := InlineTargets(records)
	if len(inline) == 0 {
		return t
	}
	merged := make(targets.Map, len(t)+len(inline))
	maps.Copy(merged, inline)
	maps.Copy(merged, t)
	return merged
}

func summarizeGroup(name string, codes []string, actual map[string]decimal.Decimal, t targets.Map, withTotal bool) GroupSummary {
	g := GroupSummary{Name: name}
	total := Line{Code: name}
	for _, code := range codes {
		line := Line{Code: code, Target: t.Get(code), Actual: actual[code]}
		line.Diff = line.Actual.Sub(line.Target)
		g.Lines = append(g.Lines, line)

		total.Target = total.Target.Add(line.Target)
		total.Actual = total.Actual.Add(line.Actual)
	}
	if withTotal {
		total.Diff = total.Actual.Sub(total.Target)
		g.Total = &total
	}
	return g
}
