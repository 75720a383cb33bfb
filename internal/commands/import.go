package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/config"
	"tally/internal/core"
	"tally/internal/importer"
	"tally/internal/log"
)

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk upload transactions from a CSV file",
		Long: "Reads a CSV with the columns date, description, type, category, normal and amount. " +
			"Every row is validated before any is stored; one bad row rejects the file.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), appOptions{
				component: log.ComponentImport,
				validate:  (*config.Config).Validate,
				logOut:    os.Stderr,
			})
			if err != nil {
				return err
			}
			defer a.Close()

			return runImport(cmd.Context(), a.service, args[0], cmd.OutOrStdout())
		},
	}
}

type bulkImporter interface {
	Import(ctx context.Context, ts []core.Transaction) (int, error)
}

func runImport(ctx context.Context, svc bulkImporter, path string, w io.Writer) error {
	rows, err := importer.ReadFile(path)
	if err != nil {
		return err
	}
	n, err := svc.Import(ctx, rows)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Imported %d transactions from %s\n", n, path)
	return err
}
