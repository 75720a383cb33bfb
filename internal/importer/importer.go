// Package importer reads transactions from a CSV export for bulk upload.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"tally/internal/core"
)

// Columns are the header names a bulk upload must carry, in any order and case.
var Columns = []string{"date", "description", "type", "category", "normal", "amount"}

var ErrMissingColumns = errors.New("missing columns")

// Dates are accepted in ISO form or as a US spreadsheet export.
var dateLayouts = []string{core.DateLayout, "1/2/2006"}

// ReadFile opens path and reads it with ReadTransactions.
func ReadFile(path string) ([]core.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTransactions(f)
}

// ReadTransactions parses every data row of a CSV with a header line. Header
// names are trimmed and lower-cased before matching. The first bad row stops
// the read; its line number is in the error.
func ReadTransactions(r io.Reader) ([]core.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(sortedColumns(), ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var out []core.Transaction
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		t, err := parseRecord(record, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	var missing []string
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

func sortedColumns() []string {
	c := slices.Clone(Columns)
	slices.Sort(c)
	return c
}

func parseRecord(record []string, idx map[string]int) (core.Transaction, error) {
	get := func(col string) string {
		if i := idx[col]; i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	date, err := parseDate(get("date"))
	if err != nil {
		return core.Transaction{}, err
	}
	category, err := core.ParseCategory(get("category"))
	if err != nil {
		return core.Transaction{}, err
	}
	normal, err := parseNormal(get("normal"))
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(get("amount"))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %q", err, get("amount"))
	}

	t := core.Transaction{
		Date:        date,
		Description: get("description"),
		Type:        get("type"),
		Category:    category,
		Normal:      normal,
		Amount:      amount,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func parseDate(s string) (core.Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.DateOf(t), nil
		}
	}
	return core.Date{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, s)
}

var ErrInvalidNormal = errors.New("normal must be true or false")

func parseNormal(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidNormal, s)
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
