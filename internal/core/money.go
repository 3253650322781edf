package core

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders value in the display format of currency, for example
// "$1,500.00" or "-$1,000.00". Unknown codes fall back to "1500.00 CODE".
func FormatMoney(value float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = DefaultCurrency
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", FormatAmount(value), code)
	}
	// Always two decimals, also for currencies without minor units (JPY).
	sep := cur.Decimal
	if sep == "" {
		sep = "."
	}
	cents := decimal.NewFromFloat(value).Shift(2).Round(0).IntPart()
	return money.NewFormatter(2, sep, cur.Thousand, cur.Grapheme, cur.Template).Format(cents)
}

// FormatAmount renders value with two decimals.
func FormatAmount(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}
