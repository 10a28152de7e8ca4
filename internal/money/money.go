package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders a decimal with two decimal places and comma thousand
// separators: 1234567.8 -> "1,234,567.80".
func Format(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}

	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}

		b.WriteRune(r)
	}

	b.WriteByte('.')
	b.WriteString(fracPart)

	return b.String()
}

// ParseEuropean parses a European-formatted amount string.
// Format examples: "1.234,56" -> 1234.56, "-588,74" -> -588.74.
func ParseEuropean(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, " ", "")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	return decimal.NewFromString(clean)
}
