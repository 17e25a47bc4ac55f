package cost

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders equivalences and money with locale-aware separators.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a Formatter for tag. An undetermined tag uses English.
func NewFormatter(tag language.Tag) *Formatter {
	if tag == language.Und {
		tag = language.English
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Number formats v with the given precision and thousand separators.
func (f *Formatter) Number(v float64, precision int) string {
	if precision <= 0 {
		return f.printer.Sprintf("%d", int64(math.Round(v)))
	}
	return f.printer.Sprintf(fmt.Sprintf("%%.%df", precision), v)
}

// Money formats an amount rounded to MoneyDecimals followed by currency.
func (f *Formatter) Money(amount float64, currency string) string {
	rounded, _ := RoundMoney(amount).Float64()
	return f.Number(rounded, MoneyDecimals) + " " + currency
}

// Describe renders e as a single sentence.
func (f *Formatter) Describe(e Equivalence) string {
	return f.printer.Sprintf("Equivalent to %s trees absorbing for a year, driving ~%s km or ~%s device charges",
		f.Number(e.TreesPerYear, 2), f.Number(e.CarKmEquivalent, 1), f.Number(e.DeviceCharges, 0))
}
