// Package worker copies stored expenses into the spreadsheet mirror.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/sheets"
	"tally/internal/storage"
)

// Store is the slice of storage the mirror needs.
type Store interface {
	GetExpense(ctx context.Context, id int64) (core.Transaction, error)
	PendingSync(ctx context.Context, limit int) ([]int64, error)
	ClaimSync(ctx context.Context, id int64) (bool, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

type MirrorWorker struct {
	store     Store
	sheets    sheets.ExpenseWriter
	batchSize int
	logger    *log.Logger
}

func NewMirrorWorker(store Store, writer sheets.ExpenseWriter, batchSize int, logger *log.Logger) *MirrorWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &MirrorWorker{
		store:     store,
		sheets:    writer,
		batchSize: batchSize,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleRecorded mirrors the expense named by msg. Rows already claimed by
// the sweep or handled earlier, and rows that no longer exist, are
// acknowledged without writing.
func (w *MirrorWorker) HandleRecorded(ctx context.Context, msg *amqp.ExpenseRecordedMessage) error {
	err := w.mirror(ctx, msg.ExpenseID)
	if errors.Is(err, storage.ErrNotFound) {
		w.logger.WarnContext(ctx, "Expense not found, dropping message",
			log.FieldExpenseID, msg.ExpenseID, log.FieldMessageID, msg.MessageID)
		return nil
	}
	return err
}

// mirror claims the row, appends it and records the outcome. A row someone
// else claimed is skipped. A failed append marks the row as errored; only
// storage failures are returned.
func (w *MirrorWorker) mirror(ctx context.Context, id int64) error {
	won, err := w.store.ClaimSync(ctx, id)
	if err != nil {
		return fmt.Errorf("claim expense %d: %w", id, err)
	}
	if !won {
		w.logger.DebugContext(ctx, "Expense already claimed", log.FieldExpenseID, id)
		return nil
	}

	t, err := w.store.GetExpense(ctx, id)
	if err != nil {
		if merr := w.store.MarkSyncError(ctx, id); merr != nil {
			w.logger.ErrorContext(ctx, "Failed to release claim", log.FieldExpenseID, id, log.FieldError, merr)
		}
		return fmt.Errorf("get expense %d: %w", id, err)
	}

	ref, err := w.sheets.Append(ctx, t)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to append expense to sheet",
			log.FieldExpenseID, id, log.FieldError, err)
		if merr := w.store.MarkSyncError(ctx, id); merr != nil {
			return fmt.Errorf("mark sync error: %w", merr)
		}
		return nil
	}

	if err := w.store.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	w.logger.InfoContext(ctx, "Expense mirrored",
		log.FieldExpenseID, id, log.FieldSheetsRange, ref, log.FieldOperation, log.OpSync)
	return nil
}

// SweepResult counts the outcome of one pending sweep.
type SweepResult struct {
	Processed int
	Failed    int
}

// ProcessPending mirrors up to one batch of rows still marked pending. It
// recovers rows whose message was lost or that were bulk imported.
func (w *MirrorWorker) ProcessPending(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	ids, err := w.store.PendingSync(ctx, w.batchSize)
	if err != nil {
		return res, fmt.Errorf("get pending expenses: %w", err)
	}
	if len(ids) == 0 {
		return res, nil
	}

	w.logger.InfoContext(ctx, "Processing pending expenses", "count", len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := w.mirror(ctx, id); err != nil {
			w.logger.ErrorContext(ctx, "Failed to mirror pending expense", log.FieldExpenseID, id, log.FieldError, err)
			res.Failed++
			continue
		}
		res.Processed++
	}
	return res, nil
}

// Run sweeps pending rows once at start and then on every interval tick
// until ctx is cancelled.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res, err := w.ProcessPending(ctx)
		if err != nil && ctx.Err() == nil {
			w.logger.ErrorContext(ctx, "Pending sweep failed", log.FieldError, err)
		} else if res.Processed+res.Failed > 0 {
			w.logger.InfoContext(ctx, "Pending sweep completed", "processed", res.Processed, "failed", res.Failed)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
