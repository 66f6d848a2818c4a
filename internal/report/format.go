package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ironsheep/salesbot-ocr/internal/layout"
	"github.com/ironsheep/salesbot-ocr/internal/targets"
)

// Labels holds every fixed piece of text in a rendered report.
type Labels struct {
	Title      string `toml:"title"`
	Department string `toml:"department"`
	Target     string `toml:"target"`
	Actual     string `toml:"actual"`
	Diff       string `toml:"diff"`
	Total      string `toml:"total"`
	Currency   string `toml:"currency"`
	Separator  string `toml:"separator"`
	NoData     string `toml:"no_data"`
	NotFound   string `toml:"not_found"`
}

// DefaultLabels returns the Thai labels used in chat replies.
func DefaultLabels() Labels {
	return Labels{
		Title:      "สรุปยอดประจำวันที่",
		Department: "แผนก",
		Target:     "ยอดที่ต้องการ",
		Actual:     "ยอดวันนี้",
		Diff:       "เป้า/ขาดทุน",
		Total:      "รวม",
		Currency:   "บาท",
		Separator:  "──────────",
		NoData:     "ไม่พบข้อมูลยอดขายในรูปภาพ",
		NotFound:   "ไม่พบตารางยอดขายในรูปภาพ กรุณาถ่ายรูปใหม่ให้เห็นหัวตารางชัดเจน",
	}
}

// merge fills empty fields of l from d.
func (l Labels) merge(d Labels) Labels {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Labels{
		Title:      pick(l.Title, d.Title),
		Department: pick(l.Department, d.Department),
		Target:     pick(l.Target, d.Target),
		Actual:     pick(l.Actual, d.Actual),
		Diff:       pick(l.Diff, d.Diff),
		Total:      pick(l.Total, d.Total),
		Currency:   pick(l.Currency, d.Currency),
		Separator:  pick(l.Separator, d.Separator),
		NoData:     pick(l.NoData, d.NoData),
		NotFound:   pick(l.NotFound, d.NotFound),
	}
}

// Formatter renders summaries as chat text. The zero value uses DefaultLabels.
type Formatter struct {
	Labels Labels
}

// NewFormatter creates a formatter; empty labels fall back to the defaults.
func NewFormatter(labels Labels) *Formatter {
	return &Formatter{Labels: labels.merge(DefaultLabels())}
}

func (f *Formatter) labels() Labels {
	return f.Labels.merge(DefaultLabels())
}

// FormatSummary aggregates records against targets with the layout's group
// partition and renders the result under a title carrying date.
func (f *Formatter) FormatSummary(l *layout.Layout, records []SalesRecord, t targets.Map, date string) string {
	return f.Format(Summarize(l, records, t), date)
}

// Format renders a summary. The output depends only on its arguments.
func (f *Formatter) Format(s Summary, date string) string {
	lb := f.labels()

	var b strings.Builder
	b.WriteString(lb.Title)
	b.WriteString(" ")
	b.WriteString(date)
	b.WriteString("\n")

	if s.Empty() {
		b.WriteString(lb.NoData)
		return b.String()
	}

	for i, g := range s.Groups {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(lb.Separator)
			b.WriteString("\n")
		}
		if g.Name != "" {
			b.WriteString("【" + g.Name + "】\n")
		}
		for j, line := range g.Lines {
			if j > 0 {
				b.WriteString("\n")
			}
			writeBlock(&b, lb, lb.Department+" "+line.Code, line)
		}
		if g.Total != nil {
			b.WriteString("\n")
			writeBlock(&b, lb, lb.Total+" "+g.Name, *g.Total)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeBlock(b *strings.Builder, lb Labels, heading string, line Line) {
	b.WriteString(heading)
	b.WriteString("\n")
	writeAmount(b, lb.Target, FormatAmount(line.Target), lb.Currency)
	writeAmount(b, lb.Actual, FormatAmount(line.Actual), lb.Currency)
	writeAmount(b, lb.Diff, FormatDiff(line.Diff), lb.Currency)
}

func writeAmount(b *strings.Builder, label, amount, currency string) {
	b.WriteString("  ")
	b.WriteString(label)
	b.WriteString(" ")
	b.WriteString(amount)
	if currency != "" {
		b.WriteString(" ")
		b.WriteString(currency)
	}
	b.WriteString("\n")
}

// FormatAmount renders d with two decimals and English thousands grouping,
// e.g. "-1,234.50". The digits come from the decimal itself, so large values
// stay exact.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(".")
	b.WriteString(frac)
	return b.String()
}

// FormatDiff is FormatAmount with an explicit "+" for values that are not
// negative.
func FormatDiff(d decimal.Decimal) string {
	if d.Round(2).Sign() >= 0 {
		return "+" + FormatAmount(d)
	}
	return FormatAmount(d)
}

// DefaultDateFormat renders dates the way Thai locales print them (d/m/yyyy).
const DefaultDateFormat = "2/1/2006"

// FormatDate renders t with a Go time layout. With buddhistEra set, the
// four-digit year ("2006") is shown in the Buddhist era, 543 years ahead.
func FormatDate(t time.Time, format string, buddhistEra bool) string {
	if format == "" {
		format = DefaultDateFormat
	}
	if !buddhistEra || !strings.Contains(format, "2006") {
		return t.Format(format)
	}
	// \x00 is not a layout element, so it survives Format untouched
	out := t.Format(strings.ReplaceAll(format, "2006", "\x00"))
	return strings.ReplaceAll(out, "\x00", strconv.Itoa(t.Year()+543))
}
