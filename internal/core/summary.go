package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryTotal is one line of a category summary.
type CategoryTotal struct {
	Category Category        `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Percent  float64         `json:"percent"`
}

// CategorySummary is ordered by category name.
type CategorySummary []CategoryTotal

// DisplayRow is a transaction formatted for the detail listing.
type DisplayRow struct {
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Category    Category `json:"category"`
	Normal      string   `json:"normal"`
	Amount      string   `json:"amount"`
}

var hundred = decimal.NewFromInt(100)

// Summarize groups rows by category and computes each category's share of
// the grand total. With normalOnly, one-off rows are dropped first. An empty
// input gives an empty summary; a zero grand total gives zero percentages.
func Summarize(rows []LedgerRow, normalOnly bool) CategorySummary {
	totals := make(map[Category]decimal.Decimal)
	grand := decimal.Zero
	for _, r := range rows {
		if normalOnly && !r.Normal {
			continue
		}
		totals[r.Category] = totals[r.Category].Add(r.Amount)
		grand = grand.Add(r.Amount)
	}
	if len(totals) == 0 {
		return CategorySummary{}
	}

	out := make(CategorySummary, 0, len(totals))
	for c, total := range totals {
		var pct float64
		if grand.IsPositive() {
			pct = total.Div(grand).Mul(hundred).InexactFloat64()
		}
		out = append(out, CategoryTotal{Category: c, Total: total, Percent: pct})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// Total is the sum of all category totals.
func (s CategorySummary) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range s {
		sum = sum.Add(c.Total)
	}
	return sum
}

func (s CategorySummary) Empty() bool { return len(s) == 0 }

// FormatDetail renders transactions for display, newest first. Rows sharing a
// date keep their input order.
func FormatDetail(rows []Transaction, normalOnly bool) []DisplayRow {
	kept := make([]Transaction, 0, len(rows))
	for _, t := range rows {
		if normalOnly && !t.Normal {
			continue
		}
		kept = append(kept, t)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Date.After(kept[j].Date) })

	out := make([]DisplayRow, len(kept))
	for i, t := range kept {
		out[i] = DisplayRow{
			Date:        t.Date.String(),
			Description: t.Description,
			Type:        t.Type,
			Category:    t.Category,
			Normal:      YesNo(t.Normal),
			Amount:      FormatUSD(t.Amount),
		}
	}
	return out
}

// YesNo labels a boolean for display.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
