package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.23", "1.23", true},
		{"$1,234.50", "1234.5", true},
		{" 2.50 ", "2.5", true},
		{"0", "0", true},
		{"-1", "", false},
		{"+1", "", false},
		{"1e3", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"$", "", false},
		{"$.5", "0.5", true},
		{"12,345,678.90", "12345678.9", true},
		{"1000", "1000", true},
		{"1,2.5", "", false},
		{"$$.5", "", false},
		{"12,34", "", false},
		{",123", "", false},
		{"1,2345", "", false},
		{"5$", "", false},
		{"1.", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	cases := map[string]string{
		"0":        "$0.00",
		"5":        "$5.00",
		"12.5":     "$12.50",
		"1234.567": "$1,234.57",
		"1000000":  "$1,000,000.00",
		"999.994":  "$999.99",
		"-42.1":    "-$42.10",

		"123456789012345678901.5": "$123,456,789,012,345,678,901.50",
	}
	for in, want := range cases {
		if got := FormatUSD(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatUSD(%s) = %q, want %q", in, got, want)
		}
	}
}
