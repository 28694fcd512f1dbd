package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundMoney rounds to kuruş, half away from zero. Amounts stay unrounded in
// pricing and pass through here only for display and persistence.
func RoundMoney(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// FormatTRY formats an amount in Turkish Lira notation: dot thousands
// separator, comma decimal separator, two decimals and a trailing symbol
// (e.g. 1.234,56 ₺).
func FormatTRY(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)

	negative := d.IsNegative()
	raw := d.Abs().StringFixed(2)

	parts := strings.SplitN(raw, ".", 2)
	result := applyThousandsGrouping(parts[0]) + "," + parts[1] + " ₺"
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts dots every three digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// ParseMoney reads an operator-entered amount. Both "1.234,56" and "1234.56"
// are accepted; a single dot followed by exactly three digits is read as a
// thousands separator. The currency symbol and "TL" suffix are ignored.
func ParseMoney(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimSuffix(clean, "₺")
	clean = strings.TrimSuffix(strings.TrimSuffix(clean, "TL"), "tl")
	clean = strings.ReplaceAll(clean, " ", "")
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(clean, ",") > 1 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		clean = strings.Replace(clean, ",", ".", 1)
	case lastDot >= 0:
		if strings.Count(clean, ".") > 1 || len(clean)-lastDot-1 == 3 {
			clean = strings.ReplaceAll(clean, ".", "")
		}
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d.InexactFloat64(), nil
}
