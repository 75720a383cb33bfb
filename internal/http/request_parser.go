package http

import (
	"fmt"
	"net/url"
	"strings"

	"tally/internal/core"
)

// Form field names shared by the handlers and the templates.
const (
	fieldDate        = "date"
	fieldDescription = "description"
	fieldType        = "type"
	fieldNewType     = "new_type"
	fieldTypeMode    = "type_mode"
	fieldCategory    = "category"
	fieldNormal      = "normal"
	fieldAmount      = "amount"
	fieldPeriod      = "period"
	fieldStart       = "start"
	fieldEnd         = "end"
)

// typeModeNew selects the free-text type field over the picker.
const typeModeNew = "new"

// ParseEntryForm turns an entry form submission into a core.NewEntry. Only
// the field formats are checked here; the entry itself is validated when it
// is converted to a transaction.
func ParseEntryForm(form url.Values) (core.NewEntry, error) {
	date, err := core.ParseDate(form.Get(fieldDate))
	if err != nil {
		return core.NewEntry{}, err
	}
	category, err := core.ParseCategory(form.Get(fieldCategory))
	if err != nil {
		return core.NewEntry{}, err
	}
	amount, err := core.ParseAmount(form.Get(fieldAmount))
	if err != nil {
		return core.NewEntry{}, fmt.Errorf("%w: %q", err, form.Get(fieldAmount))
	}

	return core.NewEntry{
		Date:        date,
		Description: sanitizeInput(form.Get(fieldDescription)),
		Type: core.TypeChoice{
			Existing: sanitizeInput(form.Get(fieldType)),
			New:      sanitizeInput(form.Get(fieldNewType)),
			UseNew:   form.Get(fieldTypeMode) == typeModeNew,
		},
		Category: category,
		Normal:   isChecked(form.Get(fieldNormal)),
		Amount:   amount,
	}, nil
}

// ParsePeriod reads a reporting period from the period, start and end
// values. An empty period falls back to def.
func ParsePeriod(values url.Values, def core.ReportingPeriod) (core.ReportingPeriod, error) {
	raw := strings.TrimSpace(values.Get(fieldPeriod))
	if raw == "" {
		return def, nil
	}
	kind, err := core.ParsePeriodKind(raw)
	if err != nil {
		return core.ReportingPeriod{}, err
	}
	if kind != core.Custom {
		return core.Named(kind), nil
	}

	start, err := core.ParseDate(values.Get(fieldStart))
	if err != nil {
		return core.ReportingPeriod{}, fmt.Errorf("start: %w", err)
	}
	end, err := core.ParseDate(values.Get(fieldEnd))
	if err != nil {
		return core.ReportingPeriod{}, fmt.Errorf("end: %w", err)
	}
	return core.CustomPeriod(start, end), nil
}

// ParseNormalOnly reads the normal-only toggle.
func ParseNormalOnly(values url.Values) bool {
	return isChecked(values.Get(fieldNormal))
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

// sanitizeInput trims whitespace and drops control characters other than
// tab and newlines.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
