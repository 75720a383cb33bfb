// Package services holds the application operations shared by the web UI
// and the command line.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/log"
)

const typesCacheKey = "types"

// DefaultTypes are offered in the type picker even before any row uses them.
var DefaultTypes = []string{"Expense", "Income"}

// Report is everything the summary views show for one period.
type Report struct {
	Period     core.ReportingPeriod
	Range      core.DateRange
	NormalOnly bool
	Summary    core.CategorySummary
	Detail     []core.DisplayRow
}

// ExpenseService records transactions and builds period reports.
type ExpenseService struct {
	store     ExpenseStore
	publisher EventPublisher
	types     *cache.LRUCache[[]string]
	logger    *log.Logger
}

// NewExpenseService wires the service. publisher may be nil when no message
// broker is configured.
func NewExpenseService(store ExpenseStore, publisher EventPublisher, logger *log.Logger) *ExpenseService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		types:     cache.NewLRUCache[[]string](1, 5*time.Minute),
		logger:    logger.WithComponent(log.ComponentExpense),
	}
}

// TypesCache exposes the known-types cache so a cache.Manager can sweep it.
func (s *ExpenseService) TypesCache() cache.Cleaner {
	return s.types
}

// Record validates an entry, stores it and announces it to the mirror.
// A publish failure is logged and does not fail the call.
func (s *ExpenseService) Record(ctx context.Context, e core.NewEntry) (int64, error) {
	t, err := e.Transaction()
	if err != nil {
		return 0, err
	}

	id, err := s.store.Insert(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}
	s.types.Delete(typesCacheKey)

	fields := log.NewFields().
		WithExpense(id, t.Date.String(), t.Type, string(t.Category), t.Normal, t.Amount.String()).
		WithOperation(log.OpCreate)
	s.logger.LogFields(ctx, slog.LevelInfo, "Expense recorded", fields)

	if s.publisher == nil {
		s.logger.DebugContext(ctx, "No publisher configured, skipping mirror message", log.FieldExpenseID, id)
		return id, nil
	}
	if err := s.publisher.PublishExpenseRecorded(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense recorded message",
			log.FieldExpenseID, id, log.FieldError, err)
	}
	return id, nil
}

// Import stores transactions all-or-nothing. Any invalid row rejects the whole set.
func (s *ExpenseService) Import(ctx context.Context, ts []core.Transaction) (int, error) {
	for i, t := range ts {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	if len(ts) == 0 {
		return 0, nil
	}

	n, err := s.store.InsertBatch(ctx, ts)
	if err != nil {
		return 0, fmt.Errorf("import expenses: %w", err)
	}
	s.types.Delete(typesCacheKey)

	s.logger.InfoContext(ctx, "Expenses imported", log.FieldRows, n, log.FieldOperation, log.OpImport)
	return n, nil
}

// Report resolves the period against today and aggregates the rows in range.
// An invalid custom range returns core.ErrInvalidRange and no data.
func (s *ExpenseService) Report(ctx context.Context, p core.ReportingPeriod, today core.Date, normalOnly bool) (Report, error) {
	rng, err := core.Resolve(p, today)
	if err != nil {
		return Report{}, err
	}

	var (
		rows []core.LedgerRow
		txs  []core.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.store.LedgerRows(gctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.store.Transactions(gctx, rng)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("load period %s: %w", rng, err)
	}

	fields := log.NewFields().
		WithRange(string(p.Kind), rng.Start.String(), rng.End.String()).
		WithOperation(log.OpReport)
	fields[log.FieldRows] = len(rows)
	s.logger.LogFields(ctx, slog.LevelDebug, "Report built", fields)

	return Report{
		Period:     p,
		Range:      rng,
		NormalOnly: normalOnly,
		Summary:    core.Summarize(rows, normalOnly),
		Detail:     core.FormatDetail(txs, normalOnly),
	}, nil
}

// Types returns the sorted union of DefaultTypes and the types already stored.
func (s *ExpenseService) Types(ctx context.Context) ([]string, error) {
	if cached, ok := s.types.Get(typesCacheKey); ok {
		return slices.Clone(cached), nil
	}

	stored, err := s.store.DistinctTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	out := append(slices.Clone(DefaultTypes), stored...)
	slices.Sort(out)
	out = slices.Compact(out)

	s.types.Set(typesCacheKey, out)
	return slices.Clone(out), nil
}

// IsValidation reports whether err is a user input problem rather than a
// storage failure.
func IsValidation(err error) bool {
	for _, target := range []error{
		core.ErrInvalidDate,
		core.ErrInvalidAmount,
		core.ErrInvalidCategory,
		core.ErrEmptyType,
		core.ErrDescriptionLimit,
		core.ErrInvalidRange,
		core.ErrUnknownPeriod,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
