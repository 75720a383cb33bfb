// Package storage persists transactions in the expenses table. SQLite,
// Postgres and in-memory implementations share the Repository contract.
package storage

import (
	"context"
	"errors"

	"tally/internal/core"
)

// Sync states of a row with respect to the spreadsheet mirror.
const (
	SyncPending = "pending"
	SyncClaimed = "syncing"
	SyncDone    = "synced"
	SyncError   = "error"
)

var ErrNotFound = errors.New("expense not found")

// Repository is the storage contract used by services and the mirror worker.
type Repository interface {
	// Insert stores one transaction and returns its id.
	Insert(ctx context.Context, t core.Transaction) (int64, error)
	// InsertBatch stores all transactions in one transaction, or none of them.
	InsertBatch(ctx context.Context, ts []core.Transaction) (int, error)
	// LedgerRows returns category, normal and amount of every row dated within r.
	LedgerRows(ctx context.Context, r core.DateRange) ([]core.LedgerRow, error)
	// Transactions returns full rows dated within r, newest first.
	Transactions(ctx context.Context, r core.DateRange) ([]core.Transaction, error)
	// DistinctTypes returns the sorted distinct type labels in use.
	DistinctTypes(ctx context.Context) ([]string, error)

	GetExpense(ctx context.Context, id int64) (core.Transaction, error)
	PendingSync(ctx context.Context, limit int) ([]int64, error)
	// ClaimSync moves a pending row to syncing and reports whether this
	// caller won it. Only the winner may write the row to the sheet.
	ClaimSync(ctx context.Context, id int64) (bool, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
	SyncStatus(ctx context.Context, id int64) (string, error)

	Ping(ctx context.Context) error
	Close() error
}
