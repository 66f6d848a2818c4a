package report

import (
	"iter"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Tokens returns the whitespace-delimited tokens of text in order. The
// sequence is lazy and can be ranged over more than once.
func Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for tok := range strings.FieldsSeq(norm.NFC.String(text)) {
			if !yield(tok) {
				return
			}
		}
	}
}

// Lines returns one entry per non-blank line of text with runs of internal
// whitespace collapsed to a single space.
func Lines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.Lines(norm.NFC.String(text)) {
			collapsed := strings.Join(strings.Fields(line), " ")
			if collapsed == "" {
				continue
			}
			if !yield(collapsed) {
				return
			}
		}
	}
}
