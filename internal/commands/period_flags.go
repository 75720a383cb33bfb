package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/core"
)

// periodFlags are the report selection flags shared by summary and export.
type periodFlags struct {
	period     string
	start      string
	end        string
	today      string
	normalOnly bool
}

func (f *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.period, "period", string(core.CurrentMonth),
		"current_month, last_month, past_three_months, year_to_date, past_year or custom")
	cmd.Flags().StringVar(&f.start, "start", "", "first day of a custom period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "last day of a custom period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.today, "today", "", "resolve the period as of this date instead of today (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&f.normalOnly, "normal-only", false, "leave out one-off transactions")
}

// resolve returns the selected period and the reference date.
func (f *periodFlags) resolve() (core.ReportingPeriod, core.Date, error) {
	today := core.Today()
	if f.today != "" {
		d, err := core.ParseDate(f.today)
		if err != nil {
			return core.ReportingPeriod{}, core.Date{}, fmt.Errorf("--today: %w", err)
		}
		today = d
	}

	kind, err := core.ParsePeriodKind(f.period)
	if err != nil {
		return core.ReportingPeriod{}, core.Date{}, err
	}
	if kind != core.Custom {
		return core.Named(kind), today, nil
	}

	if f.start == "" || f.end == "" {
		return core.ReportingPeriod{}, core.Date{}, errors.New("a custom period needs --start and --end")
	}
	start, err := core.ParseDate(f.start)
	if err != nil {
		return core.ReportingPeriod{}, core.Date{}, fmt.Errorf("--start: %w", err)
	}
	end, err := core.ParseDate(f.end)
	if err != nil {
		return core.ReportingPeriod{}, core.Date{}, fmt.Errorf("--end: %w", err)
	}
	return core.CustomPeriod(start, end), today, nil
}
