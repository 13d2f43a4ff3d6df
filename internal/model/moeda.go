package model

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printerBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatarReais renders an amount the way the shop reads it: R$ 1.234,56.
func FormatarReais(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-" + printerBR.Sprintf("R$ %.2f", v.Neg().Round(2).InexactFloat64())
	}
	return printerBR.Sprintf("R$ %.2f", v.Round(2).InexactFloat64())
}
