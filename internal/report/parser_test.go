package report

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/ironsheep/salesbot-ocr/internal/layout"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func builtin(t *testing.T, name string) *layout.Layout {
	t.Helper()
	for _, l := range layout.Builtin() {
		if l.Name == name {
			return &l
		}
	}
	t.Fatalf("no builtin layout %q", name)
	return nil
}

func TestParseTable_HeaderScenario(t *testing.T) {
	p := NewParser(layout.NewRegistry(layout.Builtin()))

	table, err := p.ParseTable("... OMCH3 Rank POS ... BR 1 1,234.50 GG 2 500.00")
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if table.Layout.Name != "omch3" {
		t.Errorf("expected layout omch3, got %s", table.Layout.Name)
	}

	want := []SalesRecord{
		{Department: "BR", Fields: []string{"1", "1,234.50"}, Sales: d("1234.50")},
		{Department: "GG", Fields: []string{"2", "500.00"}, Sales: d("500.00")},
	}
	if diff := cmp.Diff(want, table.Records, decimalEqual); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTable_NotFound(t *testing.T) {
	p := NewParser(layout.NewRegistry(layout.Builtin()))

	tests := map[string]string{
		"empty":                "",
		"whitespace":           "  \n\t ",
		"no anchor":            "BR 1 100 GG 2 200",
		"header without start": "OMCH3 Rank POS nothing here 1 2 3",
		"header at very end":   "BR 1 100 OMCH3",
		"noise":                "lorem ipsum dolor sit amet",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			table, err := p.ParseTable(text)
			if !errors.Is(err, ErrTableNotFound) {
				t.Errorf("expected ErrTableNotFound, got %v", err)
			}
			if table != nil {
				t.Errorf("expected no table, got %+v", table)
			}
		})
	}
}

func TestParseTable_FallsThroughToLines(t *testing.T) {
	p := NewParser(layout.NewRegistry(layout.Builtin()))

	text := "Branch 12\nDAILY SALES REPORT\nHW\n12,500.00\nDW\n8,000\nTOTAL\n20,500.00\n"
	table, err := p.ParseTable(text)
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if table.Layout.Name != "daily-lines" {
		t.Fatalf("expected daily-lines, got %s", table.Layout.Name)
	}
	want := []SalesRecord{
		{Department: "HW", Fields: []string{"12,500.00"}, Sales: d("12500")},
		{Department: "DW", Fields: []string{"8,000"}, Sales: d("8000")},
	}
	if diff := cmp.Diff(want, table.Records, decimalEqual); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTableWith(t *testing.T) {
	p := NewParser(layout.NewRegistry(layout.Builtin()))

	if _, err := p.ParseTableWith("nope", "OMCH3 Rank POS BR 1 2"); err == nil {
		t.Error("expected error for unknown layout")
	}

	_, err := p.ParseTableWith("daily-lines", "OMCH3 Rank POS BR 1 2")
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}

	table, err := p.ParseTableWith("omch3", "OMCH3 Rank POS BR 1 2")
	if err != nil {
		t.Fatalf("ParseTableWith failed: %v", err)
	}
	if len(table.Records) != 1 {
		t.Errorf("expected 1 record, got %d", len(table.Records))
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"runs of whitespace", "  BR\t1 \n\n 1,234.50  ", []string{"BR", "1", "1,234.50"}},
		{"thai text", "ยอด วันนี้\r\nBR", []string{"ยอด", "วันนี้", "BR"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Tokens(tt.text))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokens_Restartable(t *testing.T) {
	seq := Tokens("a b c")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) || len(first) != 3 {
		t.Errorf("expected two identical passes of 3 tokens, got %v and %v", first, second)
	}

	// Early exit must not panic or leak
	for tok := range seq {
		if tok == "a" {
			break
		}
	}
}

func TestLines(t *testing.T) {
	got := slices.Collect(Lines("  HW   12,500 \n\n\t\nDW\r\n8000"))
	want := []string{"HW 12,500", "DW", "8000"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if n := len(slices.Collect(Lines(""))); n != 0 {
		t.Errorf("expected no lines for empty text, got %d", n)
	}
}
