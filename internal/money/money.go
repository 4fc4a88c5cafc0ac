// Package money formats monetary amounts for display.
package money

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format renders an amount with its currency symbol, e.g. "$ 100.00".
// Unknown currency codes fall back to a plain numeric format with the raw
// code appended.
func Format(amount float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%.2f %s", amount, strings.ToUpper(strings.TrimSpace(code)))
	}
	return printer.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}
