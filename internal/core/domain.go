package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	Saving Category = "Saving"
	Want   Category = "Want"
	Need   Category = "Need"
)

// DateLayout is the wire and storage format of a calendar date.
const DateLayout = "2006-01-02"

// MaxDescriptionLen is the description limit in characters.
const MaxDescriptionLen = 200

type (
	// Category is the three-way budgeting classification of an expense.
	Category string

	// Date is a calendar date; the time of day is always midnight UTC.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          int64
		Date        Date
		Description string
		Type        string
		Category    Category
		Normal      bool // routine/recurring as opposed to a one-off
		Amount      decimal.Decimal
	}

	// LedgerRow is the projection of a transaction the summary needs.
	LedgerRow struct {
		Category Category
		Normal   bool
		Amount   decimal.Decimal
	}

	// TypeChoice is either a type picked from the known list or a new one typed by the user.
	TypeChoice struct {
		Existing string
		New      string
		UseNew   bool
	}

	// NewEntry carries the raw values of an entry form submission.
	NewEntry struct {
		Date        Date
		Description string
		Type        TypeChoice
		Category    Category
		Normal      bool
		Amount      decimal.Decimal
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrEmptyType        = errors.New("empty type")
	ErrDescriptionLimit = errors.New("description too long (max 200 characters)")
)

// Categories lists the valid categories in display order.
func Categories() []Category {
	return []Category{Saving, Want, Need}
}

func (c Category) Valid() bool {
	switch c {
	case Saving, Want, Need:
		return true
	}
	return false
}

// ParseCategory matches s against the known categories, ignoring case and surrounding space.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

// Resolve returns the chosen type name, trimmed.
func (c TypeChoice) Resolve() (string, error) {
	v := c.Existing
	if c.UseNew {
		v = c.New
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", ErrEmptyType
	}
	return v, nil
}

// Transaction validates the entry and converts it into a storable transaction.
func (e NewEntry) Transaction() (Transaction, error) {
	typ, err := e.Type.Resolve()
	if err != nil {
		return Transaction{}, err
	}
	t := Transaction{
		Date:        e.Date,
		Description: strings.TrimSpace(e.Description),
		Type:        typ,
		Category:    e.Category,
		Normal:      e.Normal,
		Amount:      e.Amount,
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLen {
		return ErrDescriptionLimit
	}
	if strings.TrimSpace(t.Type) == "" {
		return ErrEmptyType
	}
	if !t.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: must not be negative", ErrInvalidAmount)
	}
	return nil
}

// Row projects the transaction to the columns the summary aggregates.
func (t Transaction) Row() LedgerRow {
	return LedgerRow{Category: t.Category, Normal: t.Normal, Amount: t.Amount}
}
