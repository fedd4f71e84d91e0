// Package format renders currency amounts and rates for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/care-forecast/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrencySuffix is the currency label appended to amounts.
const DefaultCurrencySuffix = constants.DefaultCurrencySuffix

var printer = message.NewPrinter(language.English)

// Currency returns a whole-unit amount with thousands separators and the
// currency suffix (e.g., "-250,000 Kč").
func Currency(amount float64, suffix string) string {
	formatted := printer.Sprintf("%d", int64(math.Round(amount)))
	return withSuffix(formatted, suffix)
}

// SignedCurrency is like Currency but prefixes positive amounts with "+".
func SignedCurrency(amount float64, suffix string) string {
	formatted := Currency(amount, suffix)
	if math.Round(amount) > 0 {
		return "+" + formatted
	}
	return formatted
}

// Millions renders an amount in millions with one decimal (e.g., "1.8 mil. Kč").
func Millions(amount float64, suffix string) string {
	return withSuffix(fmt.Sprintf("%.1f mil.", amount/1e6), suffix)
}

// Percent renders a fraction as a percentage with one decimal place.
func Percent(fraction float64) string {
	return fmt.Sprintf("%.1f %%", fraction*constants.PercentageMultiplier)
}

func withSuffix(value, suffix string) string {
	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		return value
	}
	return value + " " + suffix
}
