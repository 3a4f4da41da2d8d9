package main

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer renders numbers with locale-aware grouping separators.
var printer = message.NewPrinter(language.English)

// formatFloat renders an optional numeric value: grouped integers above a
// million, two decimals otherwise, "-" when absent.
func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	if *v > 1_000_000 {
		return printer.Sprintf("%.0f", *v)
	}
	return printer.Sprintf("%.2f", *v)
}

// formatInt renders an optional integer with grouping, "-" when absent.
func formatInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return printer.Sprintf("%d", *v)
}

// formatYear renders an optional observation year, "-" when absent. Years
// skip the grouping printer so 2024 does not render as "2,024".
func formatYear(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// formatScore renders a computed score with two decimals.
func formatScore(v float64) string {
	return printer.Sprintf("%.2f", v)
}
