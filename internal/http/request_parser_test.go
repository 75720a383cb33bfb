package http

import (
	"errors"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/core"
)

func TestParseEntryForm(t *testing.T) {
	form := url.Values{
		"date":        {"2024-03-15"},
		"description": {"  Groceries\x00 "},
		"type":        {"Expense"},
		"new_type":    {"Gift"},
		"category":    {"need"},
		"normal":      {"on"},
		"amount":      {"$1,234.50"},
	}

	e, err := ParseEntryForm(form)
	require.NoError(t, err)
	assert.Equal(t, core.NewDate(2024, 3, 15), e.Date)
	assert.Equal(t, "Groceries", e.Description)
	assert.Equal(t, core.Need, e.Category)
	assert.True(t, e.Normal)
	assert.True(t, e.Amount.Equal(decimal.RequireFromString("1234.50")))

	typ, err := e.Type.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Expense", typ)

	form.Set("type_mode", "new")
	form.Del("normal")
	e, err = ParseEntryForm(form)
	require.NoError(t, err)
	assert.False(t, e.Normal)
	typ, err = e.Type.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Gift", typ)
}

func TestParseEntryFormErrors(t *testing.T) {
	valid := func() url.Values {
		return url.Values{
			"date":     {"2024-03-15"},
			"type":     {"Expense"},
			"category": {"Want"},
			"amount":   {"5"},
		}
	}

	tests := []struct {
		name  string
		field string
		value string
		want  error
	}{
		{"bad date", "date", "15/03/2024", core.ErrInvalidDate},
		{"missing date", "date", "", core.ErrInvalidDate},
		{"bad category", "category", "Luxury", core.ErrInvalidCategory},
		{"bad amount", "amount", "abc", core.ErrInvalidAmount},
		{"negative amount", "amount", "-3", core.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid()
			form.Set(tt.field, tt.value)
			_, err := ParseEntryForm(form)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParsePeriod(t *testing.T) {
	def := core.Named(core.LastMonth)

	p, err := ParsePeriod(url.Values{}, def)
	require.NoError(t, err)
	assert.Equal(t, def, p)

	p, err = ParsePeriod(url.Values{"period": {"year-to-date"}}, def)
	require.NoError(t, err)
	assert.Equal(t, core.Named(core.YearToDate), p)

	p, err = ParsePeriod(url.Values{"period": {"custom"}, "start": {"2024-01-01"}, "end": {"2024-01-31"}}, def)
	require.NoError(t, err)
	assert.Equal(t, core.CustomPeriod(core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31)), p)

	_, err = ParsePeriod(url.Values{"period": {"fortnight"}}, def)
	assert.ErrorIs(t, err, core.ErrUnknownPeriod)

	_, err = ParsePeriod(url.Values{"period": {"custom"}, "start": {"2024-01-01"}}, def)
	assert.ErrorIs(t, err, core.ErrInvalidDate)
}

func TestParseNormalOnly(t *testing.T) {
	for v, want := range map[string]bool{"1": true, "on": true, "TRUE": true, "": false, "0": false, "no": false} {
		assert.Equal(t, want, ParseNormalOnly(url.Values{"normal": {v}}), "value %q", v)
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "a\tb", sanitizeInput("  a\tb\x07 "))
	assert.Equal(t, "", sanitizeInput("   "))
}
