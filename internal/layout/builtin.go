package layout

// Builtin returns the layouts compiled into the binary, in match order.
// Each call returns fresh, validated copies.
func Builtin() []Layout {
	layouts := []Layout{
		{
			Name: "omch3",
			Mode: ModeTokens,
			Anchor: Anchor{
				Header:     "OMCH3",
				HeaderSkip: 2, // Rank POS
				Stop:       []string{"TOTAL"},
			},
			Vocabulary: []string{"BR", "GG", "HW", "DW", "PL", "EL", "PT", "GD", "KT", "BD", "LT", "TL"},
			Columns:    []string{"rank", "pos"},
			Groups: []Group{
				{Name: "Building", Codes: []string{"BR", "HW", "PL", "PT", "TL"}},
				{Name: "Home", Codes: []string{"DW", "EL", "KT", "BD", "LT"}},
				{Name: "Garden", Codes: []string{"GG", "GD"}},
			},
			SalesColumn: "pos",
			GroupTotals: true,
		},
		{
			Name: "daily-lines",
			Mode: ModeLines,
			Anchor: Anchor{
				Header: "SALES",
				Stop:   []string{"TOTAL"},
			},
			Columns:     []string{"sales"},
			SalesColumn: "sales",
		},
		{
			Name:            "labelled",
			Mode:            ModeLabelled,
			DepartmentLabel: "แผนก",
			FieldLabels: []FieldLabel{
				{Column: "today", Label: "ยอดวันนี้"},
				{Column: "target", Label: "ยอดที่ต้องการ"},
			},
			SalesColumn:  "today",
			TargetColumn: "target",
		},
	}
	for i := range layouts {
		if err := layouts[i].Validate(); err != nil {
			panic(err)
		}
	}
	return layouts
}
