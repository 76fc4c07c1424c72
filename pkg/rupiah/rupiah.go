// Package rupiah formats amounts as Indonesian Rupiah text.
package rupiah

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Symbol is the currency prefix.
const Symbol = "Rp"

var printer = message.NewPrinter(language.Indonesian)

// Format renders an amount with id-ID digit grouping and no fractional digits,
// e.g. 37000 -> "Rp 37.000". Fractions are rounded half away from zero.
func Format(amount float64) string {
	rounded := math.Round(amount)
	sign := ""
	if rounded < 0 {
		sign = "-"
	}
	return sign + Symbol + " " + groupWhole(math.Abs(rounded))
}

// groupWhole renders a non-negative whole amount with "." grouping. Amounts
// beyond int64 are grouped from their exact decimal digits.
func groupWhole(v float64) string {
	if v < 1<<63 {
		return printer.Sprintf("%d", int64(v))
	}

	digits := strconv.FormatFloat(v, 'f', 0, 64)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return b.String()
}

// FormatInt renders a whole-Rupiah amount.
func FormatInt(amount int64) string {
	return Format(float64(amount))
}

// Number renders a count with id-ID digit grouping, e.g. 1500 -> "1.500".
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// Percent renders a rate as a rounded whole percentage, e.g. 0.5 -> "50%".
func Percent(rate float64) string {
	return printer.Sprintf("%d%%", int(math.Round(rate*100)))
}
