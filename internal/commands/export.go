package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/config"
	"tally/internal/core"
	"tally/internal/export"
	"tally/internal/log"
)

func newExportCommand() *cobra.Command {
	var flags periodFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the period report to an XLSX workbook",
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

			if err := runExport(cmd.Context(), a.service, out, p, today, flags.normalOnly); err != nil {
				return err
			}
			a.logger.Info("Report exported", "path", out, log.FieldOperation, log.OpExport)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "report.xlsx", "output file")
	return cmd
}

// runExport writes the report to path. A partially written file is removed.
func runExport(ctx context.Context, svc reporter, path string, p core.ReportingPeriod, today core.Date, normalOnly bool) (err error) {
	rep, err := svc.Report(ctx, p, today, normalOnly)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := export.WriteXLSX(f, rep); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
