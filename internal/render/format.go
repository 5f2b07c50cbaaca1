// internal/render/format.go
package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/retailtools/item-inspector/internal/core/domain"
)

// Placeholder stands in for missing values in tables and KPI tiles.
const Placeholder = "-"

// Formatter renders numbers and money with locale-aware digit grouping.
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter creates a formatter for the given BCP 47 locale tag and
// currency code. Unknown locales fall back to English grouping.
func NewFormatter(locale, currency string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if currency == "" {
		currency = "USD"
	}
	return &Formatter{
		printer:  message.NewPrinter(tag),
		currency: currency,
	}
}

// Float renders a quantity with grouping and at most two fraction digits.
func (f *Formatter) Float(v domain.Flex) string {
	return f.printer.Sprint(number.Decimal(v.Float64(), number.MaxFractionDigits(2)))
}

// Currency renders a money value with the configured currency code.
func (f *Formatter) Currency(v domain.Flex) string {
	return f.currency + " " + f.printer.Sprint(number.Decimal(v.Float64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// CurrencyIn renders a money value in an explicit currency, falling back to
// the configured default when the row carries none.
func (f *Formatter) CurrencyIn(v domain.Flex, currency string) string {
	if currency == "" {
		currency = f.currency
	}
	return currency + " " + f.printer.Sprint(number.Decimal(v.Float64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Percent renders a percentage with one fraction digit.
func (f *Formatter) Percent(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(1))) + "%"
}
