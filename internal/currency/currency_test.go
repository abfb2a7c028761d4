package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestConvertUSDToINR(t *testing.T) {
	cases := []struct {
		usd  string
		want string
	}{
		{"1", "83"},
		{"10", "830"},
		{"19.99", "1659"},
		{"0", "0"},
	}
	for _, tc := range cases {
		usd, err := decimal.NewFromString(tc.usd)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.usd, err)
		}
		got := ConvertUSDToINR(usd)
		if got.String() != tc.want {
			t.Fatalf("ConvertUSDToINR(%s) = %s, want %s", tc.usd, got, tc.want)
		}
	}
}

func TestFormatINRIndianGrouping(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{100000, "₹1,00,000"},
		{1234567, "₹12,34,567"},
	}
	for _, tc := range cases {
		got := FormatINR(decimal.NewFromInt(tc.amount))
		if got != tc.want {
			t.Fatalf("FormatINR(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestFormatINRDropsFraction(t *testing.T) {
	amount, err := decimal.NewFromString("2499.40")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := FormatINR(amount); got != "₹2,499" {
		t.Fatalf("FormatINR(2499.40) = %q, want ₹2,499", got)
	}
}
