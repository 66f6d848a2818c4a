package layout

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

type fileSpec struct {
	Layouts []layoutSpec `yaml:"layouts"`
}

type layoutSpec struct {
	Name        string      `yaml:"name"`
	Mode        string      `yaml:"mode"`
	Anchor      anchorSpec  `yaml:"anchor"`
	Vocabulary  []string    `yaml:"vocabulary"`
	Columns     []string    `yaml:"columns"`
	SalesColumn string      `yaml:"sales_column"`
	CodePattern string      `yaml:"code_pattern"`
	Groups      []groupSpec `yaml:"groups"`
	GroupTotals bool        `yaml:"group_totals"`
	Placeholder string      `yaml:"placeholder"`

	DepartmentLabel string           `yaml:"department_label"`
	FieldLabels     []fieldLabelSpec `yaml:"field_labels"`
	TargetColumn    string           `yaml:"target_column"`
}

type fieldLabelSpec struct {
	Column string `yaml:"column"`
	Label  string `yaml:"label"`
}

type anchorSpec struct {
	Header     string   `yaml:"header"`
	HeaderSkip int      `yaml:"header_skip"`
	Start      string   `yaml:"start"`
	Stop       []string `yaml:"stop"`
}

type groupSpec struct {
	Name  string   `yaml:"name"`
	Codes []string `yaml:"codes"`
}

// LoadFile reads a YAML layouts file of the form
//
//	layouts:
//	  - name: omch3
//	    mode: tokens
//	    anchor: {header: OMCH3, header_skip: 2}
//	    vocabulary: [BR, GG]
//	    columns: [rank, pos]
//	    sales_column: pos
//	  - name: labelled
//	    mode: labelled
//	    department_label: แผนก
//	    field_labels:
//	      - {column: today, label: ยอดวันนี้}
//	      - {column: target, label: ยอดที่ต้องการ}
//	    sales_column: today
//	    target_column: target
//
// and returns the validated layouts in file order.
func LoadFile(path string) ([]Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layouts file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML layout definitions.
func Parse(data []byte) ([]Layout, error) {
	var doc fileSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode layouts: %w", err)
	}
	if len(doc.Layouts) == 0 {
		return nil, fmt.Errorf("layouts file defines no layouts")
	}

	names := make(map[string]struct{}, len(doc.Layouts))
	out := make([]Layout, 0, len(doc.Layouts))
	for _, ls := range doc.Layouts {
		l, err := ls.compile()
		if err != nil {
			return nil, err
		}
		if _, dup := names[l.Name]; dup {
			return nil, fmt.Errorf("duplicate layout name %q", l.Name)
		}
		names[l.Name] = struct{}{}
		out = append(out, l)
	}
	return out, nil
}

func (ls layoutSpec) compile() (Layout, error) {
	l := Layout{
		Name: ls.Name,
		Mode: Mode(ls.Mode),
		Anchor: Anchor{
			Header:     ls.Anchor.Header,
			HeaderSkip: ls.Anchor.HeaderSkip,
			Stop:       ls.Anchor.Stop,
		},
		Vocabulary:  ls.Vocabulary,
		Columns:     ls.Columns,
		SalesColumn: ls.SalesColumn,
		GroupTotals: ls.GroupTotals,
		Placeholder: ls.Placeholder,

		DepartmentLabel: ls.DepartmentLabel,
		TargetColumn:    ls.TargetColumn,
	}
	for _, f := range ls.FieldLabels {
		l.FieldLabels = append(l.FieldLabels, FieldLabel{Column: f.Column, Label: f.Label})
	}
	if ls.Anchor.Start != "" {
		re, err := regexp.Compile(ls.Anchor.Start)
		if err != nil {
			return Layout{}, fmt.Errorf("layout %s: bad start pattern: %w", ls.Name, err)
		}
		l.Anchor.Start = re
	}
	if ls.CodePattern != "" {
		re, err := regexp.Compile(ls.CodePattern)
		if err != nil {
			return Layout{}, fmt.Errorf("layout %s: bad code pattern: %w", ls.Name, err)
		}
		l.CodePattern = re
	}
	for _, g := range ls.Groups {
		l.Groups = append(l.Groups, Group{Name: g.Name, Codes: g.Codes})
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}
