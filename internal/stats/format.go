// Package stats projects aggregate summaries into display strings and simple
// bar charts for the dashboard's stat panels.
package stats

import (
	"fmt"
	"strings"
)

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	if len(s) > 3 {
		var b strings.Builder
		start := len(s) % 3
		if start > 0 {
			b.WriteString(s[:start])
		}
		for i := start; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatCurrency formats a dollar amount with thousands separators and a
// fixed two decimal places, e.g. 1234.5 → "$1,234.50".
func FormatCurrency(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int(v)
	cents := int(v*100+0.5) - whole*100
	if cents >= 100 {
		// Rounding carried into the next whole dollar.
		whole++
		cents -= 100
	}
	s := fmt.Sprintf("$%s.%02d", FormatInt(whole), cents)
	if neg {
		return "-" + s
	}
	return s
}

// FormatCompact formats a dollar amount with K/M/B suffixes for tight
// columns, e.g. 1500000 → "$1.5M".
func FormatCompact(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatPercent formats a 0–1 ratio as a percentage with one decimal.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// FormatCount formats a row count, using a K suffix for large values.
func FormatCount(n int) string {
	if n >= 100_000 {
		return fmt.Sprintf("%.0fK", float64(n)/1e3)
	}
	return FormatInt(n)
}

// OrNA returns s, or "N/A" when s is empty.
func OrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
