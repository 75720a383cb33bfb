package services

import (
	"context"

	"tally/internal/core"
)

//go:generate mockgen -destination=mocks/mock_services.go -source=interface.go ExpenseStore,EventPublisher

// ExpenseStore is the persistence the expense service needs.
type ExpenseStore interface {
	Insert(ctx context.Context, t core.Transaction) (int64, error)
	InsertBatch(ctx context.Context, ts []core.Transaction) (int, error)
	LedgerRows(ctx context.Context, r core.DateRange) ([]core.LedgerRow, error)
	Transactions(ctx context.Context, r core.DateRange) ([]core.Transaction, error)
	DistinctTypes(ctx context.Context) ([]string, error)
}

// EventPublisher announces newly recorded expenses to the mirror worker.
type EventPublisher interface {
	PublishExpenseRecorded(ctx context.Context, id int64) error
}
