package report

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/salesbot-ocr/internal/layout"
)

func mustLayout(t *testing.T, l layout.Layout) *layout.Layout {
	t.Helper()
	if err := l.Validate(); err != nil {
		t.Fatalf("invalid test layout: %v", err)
	}
	return &l
}

func TestReconstructTokens(t *testing.T) {
	l := builtin(t, "omch3")

	tests := []struct {
		name   string
		tokens []string
		want   []SalesRecord
	}{
		{
			name:   "empty",
			tokens: nil,
			want:   nil,
		},
		{
			name:   "short row is padded",
			tokens: []string{"BR", "1", "HW"},
			want: []SalesRecord{
				{Department: "BR", Fields: []string{"1", "0"}, Sales: d("0")},
				{Department: "HW", Fields: []string{"0", "0"}, Sales: d("0")},
			},
		},
		{
			name:   "long row is truncated in order",
			tokens: []string{"GG", "2", "500.00", "junk", "99"},
			want: []SalesRecord{
				{Department: "GG", Fields: []string{"2", "500.00"}, Sales: d("500")},
			},
		},
		{
			name:   "merged cells are split",
			tokens: []string{"BR 1", "1,234.50 GG", "2 500"},
			want: []SalesRecord{
				{Department: "BR", Fields: []string{"1", "1,234.50"}, Sales: d("1234.5")},
				{Department: "GG", Fields: []string{"2", "500"}, Sales: d("500")},
			},
		},
		{
			name:   "bad cell parses to zero",
			tokens: []string{"PL", "3", "1,2O0.00", "EL", "4", "75"},
			want: []SalesRecord{
				{Department: "PL", Fields: []string{"3", "1,2O0.00"}, Sales: d("0")},
				{Department: "EL", Fields: []string{"4", "75"}, Sales: d("75")},
			},
		},
		{
			name:   "lowercase code is not a delimiter",
			tokens: []string{"BR", "1", "gg", "2"},
			want: []SalesRecord{
				{Department: "BR", Fields: []string{"1", "gg"}, Sales: d("0")},
			},
		},
		{
			name:   "leading tokens without a code are dropped",
			tokens: []string{"x", "y", "KT", "5", "10"},
			want: []SalesRecord{
				{Department: "KT", Fields: []string{"5", "10"}, Sales: d("10")},
			},
		},
		{
			name:   "duplicate codes stay separate rows",
			tokens: []string{"BR", "1", "100", "BR", "1", "50"},
			want: []SalesRecord{
				{Department: "BR", Fields: []string{"1", "100"}, Sales: d("100")},
				{Department: "BR", Fields: []string{"1", "50"}, Sales: d("50")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReconstructTokens(tt.tokens, l)
			if diff := cmp.Diff(tt.want, got, decimalEqual); diff != "" {
				t.Errorf("records mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReconstructTokens_FieldCount(t *testing.T) {
	l := builtin(t, "omch3")
	for k := 0; k <= 5; k++ {
		tokens := []string{"BR"}
		for i := 0; i < k; i++ {
			tokens = append(tokens, "7")
		}
		records := ReconstructTokens(tokens, l)
		if len(records) != 1 {
			t.Fatalf("k=%d: expected 1 record, got %d", k, len(records))
		}
		if len(records[0].Fields) != l.ColumnCount() {
			t.Errorf("k=%d: expected %d fields, got %d", k, l.ColumnCount(), len(records[0].Fields))
		}
	}
}

func TestReconstructLines(t *testing.T) {
	l := mustLayout(t, layout.Layout{
		Name:    "two-values",
		Mode:    layout.ModeLines,
		Columns: []string{"qty", "sales"},
	})

	lines := []string{
		"HW", "3", "1,500.00",
		"DW 2 800",
		"EL", "9",
		"KT",
		"note line",
		"GD", "1", "50", "ignored",
	}
	want := []SalesRecord{
		{Department: "HW", Fields: []string{"3", "1,500.00"}, Sales: d("1500")},
		{Department: "DW", Fields: []string{"2", "800"}, Sales: d("800")},
		{Department: "EL", Fields: []string{"9", "0"}, Sales: d("0")},
		{Department: "KT", Fields: []string{"0", "0"}, Sales: d("0")},
		{Department: "GD", Fields: []string{"1", "50"}, Sales: d("50")},
	}
	got := ReconstructLines(lines, l)
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstructLines_SkipsLabelLines(t *testing.T) {
	l := builtin(t, "daily-lines")

	data, ok := SegmentLines(Lines("DAILY SALES\nHW\nยอดขาย\n12,500.00\nDW\n8,000.00"), l)
	if !ok {
		t.Fatal("expected data region")
	}
	want := []SalesRecord{
		{Department: "HW", Fields: []string{"12,500.00"}, Sales: d("12500")},
		{Department: "DW", Fields: []string{"8,000.00"}, Sales: d("8000")},
	}
	got := ReconstructLines(data, l)
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	// a label sharing the code line is not a value either
	got = ReconstructLines([]string{"HW ยอดขาย", "99"}, l)
	want = []SalesRecord{{Department: "HW", Fields: []string{"99"}, Sales: d("99")}}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstructLines_Vocabulary(t *testing.T) {
	l := mustLayout(t, layout.Layout{
		Name:       "closed",
		Mode:       layout.ModeLines,
		Vocabulary: []string{"HW"},
		Columns:    []string{"sales"},
	})
	got := ReconstructLines([]string{"HW", "10", "ZZ", "20"}, l)
	want := []SalesRecord{{Department: "HW", Fields: []string{"10"}, Sales: d("10")}}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmentTokens(t *testing.T) {
	l := builtin(t, "omch3")

	data, ok := SegmentTokens(Tokens("Store 7 OMCH3 Rank POS BR 1 10 TOTAL 10 GG 5"), l)
	if !ok {
		t.Fatal("expected data region")
	}
	want := []string{"BR", "1", "10"}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("region mismatch (-want +got):\n%s", diff)
	}

	// A header field lost by OCR must not swallow the first department
	data, ok = SegmentTokens(Tokens("OMCH3 POS BR 1 1,234.50 GG 2 500.00"), l)
	if !ok {
		t.Fatal("expected data region")
	}
	want = []string{"BR", "1", "1,234.50", "GG", "2", "500.00"}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("short header region mismatch (-want +got):\n%s", diff)
	}
	records := ReconstructTokens(data, l)
	if len(records) != 2 || records[0].Department != "BR" {
		t.Errorf("expected BR and GG records, got %+v", records)
	}

	// Non-code header fields are still skipped
	skip := mustLayout(t, layout.Layout{
		Name:       "skip",
		Anchor:     layout.Anchor{Header: "HDR", HeaderSkip: 2, Start: regexp.MustCompile(`^[A-Z0-9]+$`)},
		Vocabulary: []string{"BR", "GG"},
		Columns:    []string{"pos"},
	})
	data, ok = SegmentTokens(Tokens("HDR RANK POS GG 5"), skip)
	if !ok || data[0] != "GG" {
		t.Errorf("expected region to start at GG, got %v (ok=%v)", data, ok)
	}

	// Header present but nothing after it
	if _, ok := SegmentTokens(Tokens("OMCH3 Rank POS"), l); ok {
		t.Error("expected not found when no start token follows the header")
	}
}
