package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"tally/internal/config"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/services"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func newSummaryCommand() *cobra.Command {
	var flags periodFlags
	var detail bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the category summary for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, today, err := flags.resolve()
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), appOptions{
				component: log.ComponentApp,
				validate:  (*config.Config).Validate,
				logOut:    os.Stderr,
			})
			if err != nil {
				return err
			}
			defer a.Close()

			return runSummary(cmd.Context(), a.service, cmd.OutOrStdout(), p, today, flags.normalOnly, detail)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&detail, "detail", false, "also list the transactions")
	return cmd
}

type reporter interface {
	Report(ctx context.Context, p core.ReportingPeriod, today core.Date, normalOnly bool) (services.Report, error)
}

func runSummary(ctx context.Context, svc reporter, w io.Writer, p core.ReportingPeriod, today core.Date, normalOnly, detail bool) error {
	rep, err := svc.Report(ctx, p, today, normalOnly)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, renderReport(rep, detail))
	return err
}

// renderReport formats a report as terminal tables.
func renderReport(rep services.Report, detail bool) string {
	var b strings.Builder

	title := rep.Period.Kind.Label()
	if rep.NormalOnly {
		title += " (normal only)"
	}
	b.WriteString(titleStyle.Render(title) + " " + mutedStyle.Render(rep.Range.String()) + "\n")

	if rep.Summary.Empty() {
		b.WriteString(mutedStyle.Render("No entries for this period.") + "\n")
		return b.String()
	}

	summary := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Category", "Total", "Share").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col > 0:
				return numberStyle
			}
			return cellStyle
		})
	for _, c := range rep.Summary {
		summary.Row(string(c.Category), core.FormatUSD(c.Total), fmt.Sprintf("%.2f%%", c.Percent))
	}
	summary.Row("Total", core.FormatUSD(rep.Summary.Total()), "")
	b.WriteString(summary.Render() + "\n")

	if detail && len(rep.Detail) > 0 {
		rows := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(borderStyle).
			Headers("Date", "Description", "Type", "Category", "Normal", "Amount").
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case col == 5:
					return numberStyle
				}
				return cellStyle
			})
		for _, d := range rep.Detail {
			rows.Row(d.Date, d.Description, d.Type, string(d.Category), d.Normal, d.Amount)
		}
		b.WriteString(rows.Render() + "\n")
	}
	return b.String()
}
