// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts typed by a user
// or exported by a spreadsheet, and for formatting them for display.
package core

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// amountPattern allows one leading dollar sign and commas only between
// groups of three digits.
var amountPattern = regexp.MustCompile(`^\$?(?:\d{1,3}(?:,\d{3})+|\d+)?(?:\.\d+)?$`)

// ParseAmount converts a user-supplied amount into a decimal.
//
// A single leading dollar sign and thousands separators are accepted, so
// "$1,234.50", "1234.5" and " 12 " all parse. Negative values, misplaced
// commas, repeated symbols and exponents are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("$1,234.50") -> 1234.50, nil
//	ParseAmount("0")         -> 0, nil
//	ParseAmount("-3")        -> 0, ErrInvalidAmount
//	ParseAmount("1,2.5")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) || !strings.ContainsAny(s, "0123456789") {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatUSD renders an amount as dollars with grouped thousands and two
// decimals, e.g. "$1,234.50". Rounding is half away from zero.
func FormatUSD(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")
	grouped := whole
	if n, ok := new(big.Int).SetString(whole, 10); ok {
		grouped = humanize.BigComma(n)
	}
	return sign + "$" + grouped + "." + frac
}
