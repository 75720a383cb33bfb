// Package sheets defines the outbound port for the spreadsheet mirror.
package sheets

import (
	"context"

	"tally/internal/core"
)

// ExpenseWriter appends one stored transaction as a spreadsheet row and
// returns a reference to the written range.
type ExpenseWriter interface {
	Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
}
