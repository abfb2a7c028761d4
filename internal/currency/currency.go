// Package currency converts and formats display amounts. Prices are stored
// in whole INR; the fixed USD rate only exists for imported price lists.
package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// USDToINRRate is the fixed conversion rate.
var USDToINRRate = decimal.NewFromInt(83)

var enIN = message.NewPrinter(language.MustParse("en-IN"))

// ConvertUSDToINR converts at the fixed rate, rounded to whole rupees.
func ConvertUSDToINR(usd decimal.Decimal) decimal.Decimal {
	return usd.Mul(USDToINRRate).Round(0)
}

// FormatINR renders an amount with the rupee sign and Indian digit grouping
// (lakh/crore), dropping fraction digits. 100000 becomes "₹1,00,000".
func FormatINR(amount decimal.Decimal) string {
	whole := amount.Round(0).IntPart()
	return enIN.Sprintf("₹%v", number.Decimal(whole, number.MaxFractionDigits(0)))
}
