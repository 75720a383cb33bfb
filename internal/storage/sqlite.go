package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

const (
	sqliteInsert = `INSERT INTO expenses (date, description, type, category, normal, amount)
VALUES (?, ?, ?, ?, ?, ?)`
	sqliteLedgerRows = `SELECT category, normal, amount FROM expenses
WHERE date BETWEEN ? AND ?`
	sqliteTransactions = `SELECT id, date, description, type, category, normal, amount FROM expenses
WHERE date BETWEEN ? AND ?
ORDER BY date DESC, id ASC`
	sqliteGetExpense = `SELECT id, date, description, type, category, normal, amount FROM expenses
WHERE id = ?`
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer; one connection serialises access.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunSQLiteMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Insert(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx, sqliteInsert, insertArgs(t)...)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"date", t.Date.String(),
		"category", t.Category,
		"amount", t.Amount.String())

	return id, nil
}

func (r *SQLiteRepository) InsertBatch(ctx context.Context, ts []core.Transaction) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteInsert)
	if err != nil {
		return 0, fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range ts {
		if _, err := stmt.ExecContext(ctx, insertArgs(t)...); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}
	return len(ts), nil
}

func insertArgs(t core.Transaction) []any {
	return []any{t.Date.String(), t.Description, t.Type, string(t.Category), t.Normal, t.Amount.String()}
}

func (r *SQLiteRepository) LedgerRows(ctx context.Context, rng core.DateRange) ([]core.LedgerRow, error) {
	rows, err := r.db.QueryContext(ctx, sqliteLedgerRows, rng.Start.String(), rng.End.String())
	if err != nil {
		return nil, fmt.Errorf("query ledger rows: %w", err)
	}
	defer rows.Close()

	var out []core.LedgerRow
	for rows.Next() {
		var (
			category, amount string
			normal           bool
		)
		if err := rows.Scan(&category, &normal, &amount); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		amt, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		out = append(out, core.LedgerRow{Category: core.Category(category), Normal: normal, Amount: amt})
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Transactions(ctx context.Context, rng core.DateRange) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, sqliteTransactions, rng.Start.String(), rng.End.String())
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT type FROM expenses ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("query types: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan type: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetExpense retrieves a single expense by ID
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, sqliteGetExpense, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("get expense %d: %w", id, ErrNotFound)
	}
	return t, err
}

// PendingSync returns ids of rows the mirror has not copied yet, oldest first.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM expenses WHERE sync_status = ? ORDER BY id LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending sync: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ClaimSync flips a pending row to syncing in one statement, so two
// mirrors racing on the same id cannot both win.
func (r *SQLiteRepository) ClaimSync(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET sync_status = ? WHERE id = ? AND sync_status = ?`, SyncClaimed, id, SyncPending)
	if err != nil {
		return false, fmt.Errorf("claim expense sync: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim expense sync: %w", err)
	}
	if n == 1 {
		return true, nil
	}
	if _, err := r.SyncStatus(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// MarkSynced marks an expense as successfully synced
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.setSyncStatus(ctx, id, SyncDone); err != nil {
		return fmt.Errorf("mark expense synced: %w", err)
	}
	slog.InfoContext(ctx, "Expense marked as synced", "id", id)
	return nil
}

// MarkSyncError marks an expense as having sync errors
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.setSyncStatus(ctx, id, SyncError); err != nil {
		return fmt.Errorf("mark expense sync error: %w", err)
	}
	slog.WarnContext(ctx, "Expense marked with sync error", "id", id)
	return nil
}

func (r *SQLiteRepository) SyncStatus(ctx context.Context, id int64) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT sync_status FROM expenses WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get sync status: %w", err)
	}
	return status, nil
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE expenses SET sync_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s rowScanner) (core.Transaction, error) {
	var (
		t                      core.Transaction
		date, category, amount string
	)
	if err := s.Scan(&t.ID, &date, &t.Description, &t.Type, &category, &t.Normal, &amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan expense: %w", err)
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
