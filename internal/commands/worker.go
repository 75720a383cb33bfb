package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tally/internal/amqp"
	"tally/internal/cli"
	"tally/internal/config"
	"tally/internal/log"
	gsheets "tally/internal/sheets/google"
	"tally/internal/worker"
)

func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Mirror recorded expenses to Google Sheets",
		Long: "Consumes expense-recorded messages and appends each row to the configured " +
			"spreadsheet. Rows still pending are swept every SYNC_INTERVAL.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), appOptions{
				component: log.ComponentWorker,
				validate:  (*config.Config).ValidateWorker,
				logOut:    os.Stdout,
			})
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := cli.SignalContext(cmd.Context(), a.logger)
			defer stop()
			return runWorker(ctx, a)
		},
	}
}

func runWorker(ctx context.Context, a *app) error {
	writer, err := gsheets.NewClient(ctx, gsheets.Config{
		SpreadsheetID:   a.cfg.GoogleSpreadsheetID,
		SheetName:       a.cfg.GoogleSheetName,
		CredentialsJSON: a.cfg.GoogleServiceAccountJSON,
		CredentialsFile: a.cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return fmt.Errorf("google sheets: %w", err)
	}

	client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("amqp: %w", err)
	}
	defer client.Close()

	mirror := worker.NewMirrorWorker(a.backend.Store, writer, a.cfg.SyncBatchSize, a.logger)
	a.logger.InfoContext(ctx, "Mirror worker started",
		"queue", a.cfg.AMQPQueue,
		"sync_interval", a.cfg.SyncInterval,
		log.FieldOperation, log.OpStartup)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreCanceled(client.ConsumeExpenseRecorded(gctx, mirror.HandleRecorded))
	})
	g.Go(func() error {
		return ignoreCanceled(mirror.Run(gctx, a.cfg.SyncInterval))
	})
	err = g.Wait()
	a.logger.Info("Mirror worker stopped", log.FieldOperation, log.OpShutdown)
	return err
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
