package report

import (
	"regexp"
	"strings"

	"github.com/ironsheep/salesbot-ocr/internal/targets"
)

var codeKey = regexp.MustCompile(`^[A-Za-z]+$`)

// ParseSetCommand recognises "SET HW=50000 DW=42000" and "set HW 50000". The
// keyword is case-insensitive and codes are upper-cased. Pairs with a bad code
// or a non-numeric value are skipped; the remaining pairs are returned. The
// bool is false when text is not a set command at all, so a set command with
// no usable pair returns an empty map and true.
func ParseSetCommand(text string) (targets.Map, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.EqualFold(fields[0], "SET") {
		return nil, false
	}

	out := make(targets.Map)
	args := fields[1:]
	for i := 0; i < len(args); i++ {
		var key, value string
		if k, v, ok := strings.Cut(args[i], "="); ok {
			key, value = k, v
		} else if i+1 < len(args) && !strings.Contains(args[i+1], "=") {
			key, value = args[i], args[i+1]
			i++
		} else {
			continue
		}

		if !codeKey.MatchString(key) {
			continue
		}
		d, ok := parseAmount(value)
		if !ok {
			continue
		}
		out[strings.ToUpper(key)] = d
	}
	return out, true
}
