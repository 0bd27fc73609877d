// Package currency converts between masked digit entry and Brazilian real amounts.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

const symbol = "R$"

var hundred = decimal.NewFromInt(100)

// ParseCents interprets raw keyboard input as an amount in cents. Every
// non-digit character is ignored, so "1050", "10,50" and "R$ 10,50" all yield 10.50.
func ParseCents(input string) float64 {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}

	cents, err := decimal.NewFromString(digits.String())
	if err != nil {
		return 0
	}
	value, _ := cents.Div(hundred).Float64()
	return value
}

// Digits renders an amount back into the cents digit string accepted by ParseCents.
func Digits(value float64) string {
	return decimal.NewFromFloat(value).Mul(hundred).Round(0).Abs().String()
}

// Format renders an amount with two fraction digits in pt-BR style, e.g. "R$ 1.234,56".
func Format(value float64) string {
	d := decimal.NewFromFloat(value).Round(2)
	negative := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	intPart, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := symbol + " " + grouped.String() + "," + frac
	if negative {
		return "-" + out
	}
	return out
}
