// Package utils provides common utility functions for dcfvalue.
package utils

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency formats a number as currency with two decimals and
// thousands separators, e.g. 1234567.891 → "$1,234,567.89".
// Negative amounts carry the sign before the symbol: "-$1,234.56".
func FormatCurrency(amount float64, symbol string) string {
	rounded := math.Round(amount*100) / 100
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	body := printer.Sprintf("%.2f", math.Abs(rounded))
	if rounded < 0 {
		return "-" + symbol + body
	}
	return symbol + body
}

// FormatCompact formats a number in compact notation.
// e.g., 1500 → "1.5K", 25300000 → "25.3M", 4.2e12 → "4.2T"
func FormatCompact(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = math.Abs(amount)
	}

	switch {
	case amount >= 1e12:
		return sign + formatWithDecimals(amount/1e12) + "T"
	case amount >= 1e9:
		return sign + formatWithDecimals(amount/1e9) + "B"
	case amount >= 1e6:
		return sign + formatWithDecimals(amount/1e6) + "M"
	case amount >= 1e3:
		return sign + formatWithDecimals(amount/1e3) + "K"
	default:
		return sign + formatWithDecimals(amount)
	}
}

// FormatPct formats a ratio as a percentage with sign.
// e.g., 0.0245 → "+2.45%", -0.0123 → "-1.23%"
func FormatPct(ratio float64) string {
	pct := ratio * 100
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// formatWithDecimals formats a number with up to 2 decimal places,
// removing trailing zeros.
func formatWithDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
