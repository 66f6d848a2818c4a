package report

import (
	"iter"
	"slices"
	"strings"

	"github.com/ironsheep/salesbot-ocr/internal/layout"
)

// SegmentTokens returns the data region of a token stream: everything from the
// start-of-data token up to (not including) the first stop token. The bool is
// false when the header or the start token is missing; a partial region is
// never returned.
func SegmentTokens(tokens iter.Seq[string], l *layout.Layout) ([]string, bool) {
	toks := slices.Collect(tokens)

	from := 0
	if l.Anchor.Header != "" {
		i := slices.IndexFunc(toks, func(t string) bool {
			return strings.EqualFold(t, l.Anchor.Header)
		})
		if i < 0 {
			return nil, false
		}
		from = skipHeader(toks, i+1, l.Anchor.HeaderSkip, l.IsCode)
	}

	isStart := l.IsCode
	if l.Anchor.Start != nil {
		isStart = l.Anchor.Start.MatchString
	}
	return region(toks, from, isStart, l.IsStop)
}

// SegmentLines is the lines-mode counterpart of SegmentTokens. The header only
// has to appear somewhere in a line, and the data starts at the first line the
// layout recognises as a department code.
func SegmentLines(lines iter.Seq[string], l *layout.Layout) ([]string, bool) {
	all := slices.Collect(lines)
	isCodeLine := func(s string) bool {
		code, _ := splitCodeLine(s, l)
		return code != ""
	}

	from := 0
	if l.Anchor.Header != "" {
		header := strings.ToUpper(l.Anchor.Header)
		i := slices.IndexFunc(all, func(s string) bool {
			return strings.Contains(strings.ToUpper(s), header)
		})
		if i < 0 {
			return nil, false
		}
		from = skipHeader(all, i+1, l.Anchor.HeaderSkip, isCodeLine)
	}

	isStart := isCodeLine
	if l.Anchor.Start != nil {
		isStart = l.Anchor.Start.MatchString
	}
	return region(all, from, isStart, l.IsStop)
}

// skipHeader steps over up to n header fields starting at from. OCR drops
// header fields often enough that a department code ends the skip early.
func skipHeader(items []string, from, n int, isCode func(string) bool) int {
	for ; n > 0 && from < len(items) && !isCode(items[from]); n-- {
		from++
	}
	return from
}

func region(items []string, from int, isStart, isStop func(string) bool) ([]string, bool) {
	if from >= len(items) {
		return nil, false
	}
	start := slices.IndexFunc(items[from:], isStart)
	if start < 0 {
		return nil, false
	}
	data := items[from+start:]
	if end := slices.IndexFunc(data, isStop); end >= 0 {
		data = data[:end]
	}
	if len(data) == 0 {
		return nil, false
	}
	return data, true
}
