package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"tally/internal/core"
)

const (
	pgInsert = `INSERT INTO expenses (date, description, type, category, normal, amount)
VALUES ($1::date, $2, $3, $4, $5, $6::numeric)
RETURNING id`
	pgLedgerRows = `SELECT category, normal, amount::text FROM expenses
WHERE date BETWEEN $1::date AND $2::date`
	pgTransactions = `SELECT id, to_char(date, 'YYYY-MM-DD'), description, type, category, normal, amount::text
FROM expenses
WHERE date BETWEEN $1::date AND $2::date
ORDER BY date DESC, id ASC`
	pgGetExpense = `SELECT id, to_char(date, 'YYYY-MM-DD'), description, type, category, normal, amount::text
FROM expenses WHERE id = $1`
)

// PostgresRepository stores expenses in Postgres through a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository migrates the schema and opens a connection pool.
func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	if err := RunPostgresMigrations(databaseURL); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRepository) Insert(ctx context.Context, t core.Transaction) (int64, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, pgInsert, pgInsertArgs(t)...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	slog.InfoContext(ctx, "Expense saved to Postgres",
		"id", id,
		"date", t.Date.String(),
		"category", t.Category,
		"amount", t.Amount.String())
	return id, nil
}

func (r *PostgresRepository) InsertBatch(ctx context.Context, ts []core.Transaction) (int, error) {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, t := range ts {
			batch.Queue(pgInsert, pgInsertArgs(t)...)
		}
		br := tx.SendBatch(ctx, batch)
		for i := range ts {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("insert row %d: %w", i+1, err)
			}
		}
		return br.Close()
	})
	if err != nil {
		return 0, fmt.Errorf("insert batch: %w", err)
	}
	return len(ts), nil
}

func pgInsertArgs(t core.Transaction) []any {
	return []any{t.Date.String(), t.Description, t.Type, string(t.Category), t.Normal, t.Amount.String()}
}

func (r *PostgresRepository) LedgerRows(ctx context.Context, rng core.DateRange) ([]core.LedgerRow, error) {
	rows, err := r.pool.Query(ctx, pgLedgerRows, rng.Start.String(), rng.End.String())
	if err != nil {
		return nil, fmt.Errorf("query ledger rows: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.LedgerRow, error) {
		var (
			category, amount string
			lr               core.LedgerRow
		)
		if err := row.Scan(&category, &lr.Normal, &amount); err != nil {
			return lr, err
		}
		amt, err := decimal.NewFromString(amount)
		if err != nil {
			return lr, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		lr.Category, lr.Amount = core.Category(category), amt
		return lr, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect ledger rows: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Transactions(ctx context.Context, rng core.DateRange) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx, pgTransactions, rng.Start.String(), rng.End.String())
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Transaction, error) {
		return scanPgTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("collect transactions: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT type FROM expenses ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("query types: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect types: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) GetExpense(ctx context.Context, id int64) (core.Transaction, error) {
	t, err := scanPgTransaction(r.pool.QueryRow(ctx, pgGetExpense, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("get expense %d: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *PostgresRepository) PendingSync(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM expenses WHERE sync_status = $1 ORDER BY id LIMIT $2`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending sync: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect pending ids: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) ClaimSync(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE expenses SET sync_status = $1 WHERE id = $2 AND sync_status = $3`, SyncClaimed, id, SyncPending)
	if err != nil {
		return false, fmt.Errorf("claim expense sync: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	if _, err := r.SyncStatus(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *PostgresRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.setSyncStatus(ctx, id, SyncDone); err != nil {
		return fmt.Errorf("mark expense synced: %w", err)
	}
	slog.InfoContext(ctx, "Expense marked as synced", "id", id)
	return nil
}

func (r *PostgresRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.setSyncStatus(ctx, id, SyncError); err != nil {
		return fmt.Errorf("mark expense sync error: %w", err)
	}
	slog.WarnContext(ctx, "Expense marked with sync error", "id", id)
	return nil
}

func (r *PostgresRepository) SyncStatus(ctx context.Context, id int64) (string, error) {
	var status string
	err := r.pool.QueryRow(ctx, `SELECT sync_status FROM expenses WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get sync status: %w", err)
	}
	return status, nil
}

func (r *PostgresRepository) setSyncStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE expenses SET sync_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPgTransaction(row pgx.Row) (core.Transaction, error) {
	var (
		t                      core.Transaction
		date, category, amount string
	)
	if err := row.Scan(&t.ID, &date, &t.Description, &t.Type, &category, &t.Normal, &amount); err != nil {
		return core.Transaction{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, err
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.Date, t.Category, t.Amount = d, core.Category(category), amt
	return t, nil
}
