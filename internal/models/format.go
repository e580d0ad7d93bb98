package models

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatWounds renders an expectation the way the calculator shows it: two decimals.
func FormatWounds(v float64) string {
	return printer.Sprintf("%.2f", v)
}
