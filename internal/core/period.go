package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	CurrentMonth    PeriodKind = "current_month"
	LastMonth       PeriodKind = "last_month"
	PastThreeMonths PeriodKind = "past_three_months"
	YearToDate      PeriodKind = "year_to_date"
	PastYear        PeriodKind = "past_year"
	Custom          PeriodKind = "custom"
)

type (
	// PeriodKind names a reporting period.
	PeriodKind string

	// ReportingPeriod is a named period, or a custom one carrying its own bounds.
	ReportingPeriod struct {
		Kind  PeriodKind
		Start Date // Custom only
		End   Date // Custom only
	}

	// DateRange is an inclusive range of calendar dates.
	DateRange struct {
		Start Date
		End   Date
	}
)

var (
	ErrInvalidRange  = errors.New("invalid date range: start is after end")
	ErrUnknownPeriod = errors.New("unknown reporting period")
)

// PeriodKinds lists the named periods in the order the UI offers them.
func PeriodKinds() []PeriodKind {
	return []PeriodKind{CurrentMonth, LastMonth, PastThreeMonths, YearToDate, PastYear, Custom}
}

func (k PeriodKind) Valid() bool {
	for _, v := range PeriodKinds() {
		if k == v {
			return true
		}
	}
	return false
}

// Label is the human readable name of the period.
func (k PeriodKind) Label() string {
	switch k {
	case CurrentMonth:
		return "Current Month"
	case LastMonth:
		return "Last Month"
	case PastThreeMonths:
		return "Past 3 Months"
	case YearToDate:
		return "Year to Date"
	case PastYear:
		return "Past Year"
	case Custom:
		return "Custom"
	}
	return string(k)
}

// ParsePeriodKind accepts both snake_case and kebab-case names.
func ParsePeriodKind(s string) (PeriodKind, error) {
	k := PeriodKind(normalizeKind(s))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
	return k, nil
}

func normalizeKind(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c == '-' {
			b[i] = '_'
		}
	}
	return string(b)
}

// Named returns a non-custom reporting period.
func Named(k PeriodKind) ReportingPeriod {
	return ReportingPeriod{Kind: k}
}

// CustomPeriod returns a custom reporting period; bounds are checked by Resolve.
func CustomPeriod(start, end Date) ReportingPeriod {
	return ReportingPeriod{Kind: Custom, Start: start, End: end}
}

// Resolve maps a reporting period to the concrete inclusive date range it
// covers relative to today. Only a custom period can fail, with
// ErrInvalidRange when its start is after its end.
//
// Month and year steps clamp to the last valid day of the target month, so
// one year before 2024-02-29 is 2023-02-28.
func Resolve(p ReportingPeriod, today Date) (DateRange, error) {
	t := DateOf(today.Time)
	first := monthStart(t, 0)

	switch p.Kind {
	case CurrentMonth:
		return DateRange{Start: first, End: t}, nil
	case LastMonth:
		return DateRange{Start: monthStart(t, -1), End: first.AddDays(-1)}, nil
	case PastThreeMonths:
		return DateRange{Start: monthStart(t, -2), End: t}, nil
	case YearToDate:
		return DateRange{Start: NewDate(t.Year(), 1, 1), End: t}, nil
	case PastYear:
		return DateRange{Start: addYearsClamped(t, -1), End: t}, nil
	case Custom:
		return NewDateRange(p.Start, p.End)
	}
	return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, p.Kind)
}

// NewDateRange builds a range, rejecting start > end.
func NewDateRange(start, end Date) (DateRange, error) {
	start, end = DateOf(start.Time), DateOf(end.Time)
	if start.After(end) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{Start: start, End: end}, nil
}

// Contains reports whether d falls inside the range, bounds included.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.String() + " to " + r.End.String()
}

// monthStart returns the first day of the month offset months away from d's month.
func monthStart(d Date, offset int) Date {
	// Day 1 never overflows, so AddDate is exact here.
	return Date{Time: time.Date(d.Year(), d.Time.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)}
}

func addYearsClamped(d Date, years int) Date {
	y := d.Year() + years
	m := d.Time.Month()
	day := d.Day()
	if last := daysIn(y, m); day > last {
		day = last
	}
	return NewDate(y, int(m), day)
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
