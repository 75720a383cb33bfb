package storage

import (
	"context"
	"slices"
	"sort"
	"sync"

	"tally/internal/core"
)

type memoryRow struct {
	tx     core.Transaction
	status string
}

// MemoryRepository keeps expenses in process memory. Contents are lost on exit.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   []memoryRow
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (m *MemoryRepository) Insert(_ context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(t), nil
}

func (m *MemoryRepository) insertLocked(t core.Transaction) int64 {
	t.ID = m.nextID
	m.nextID++
	m.rows = append(m.rows, memoryRow{tx: t, status: SyncPending})
	return t.ID
}

func (m *MemoryRepository) InsertBatch(_ context.Context, ts []core.Transaction) (int, error) {
	for _, t := range ts {
		if err := t.Validate(); err != nil {
			return 0, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range ts {
		m.insertLocked(t)
	}
	return len(ts), nil
}

func (m *MemoryRepository) LedgerRows(_ context.Context, r core.DateRange) ([]core.LedgerRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.LedgerRow
	for _, row := range m.rows {
		if r.Contains(row.tx.Date) {
			out = append(out, row.tx.Row())
		}
	}
	return out, nil
}

func (m *MemoryRepository) Transactions(_ context.Context, r core.DateRange) ([]core.Transaction, error) {
	m.mu.Lock()
	var out []core.Transaction
	for _, row := range m.rows {
		if r.Contains(row.tx.Date) {
			out = append(out, row.tx)
		}
	}
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *MemoryRepository) DistinctTypes(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]struct{}{}
	out := []string{}
	for _, row := range m.rows {
		if _, ok := seen[row.tx.Type]; ok {
			continue
		}
		seen[row.tx.Type] = struct{}{}
		out = append(out, row.tx.Type)
	}
	slices.Sort(out)
	return out, nil
}

func (m *MemoryRepository) GetExpense(_ context.Context, id int64) (core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexLocked(id); i >= 0 {
		return m.rows[i].tx, nil
	}
	return core.Transaction{}, ErrNotFound
}

func (m *MemoryRepository) PendingSync(_ context.Context, limit int) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for _, row := range m.rows {
		if len(ids) == limit {
			break
		}
		if row.status == SyncPending {
			ids = append(ids, row.tx.ID)
		}
	}
	return ids, nil
}

func (m *MemoryRepository) ClaimSync(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return false, ErrNotFound
	}
	if m.rows[i].status != SyncPending {
		return false, nil
	}
	m.rows[i].status = SyncClaimed
	return true, nil
}

func (m *MemoryRepository) MarkSynced(_ context.Context, id int64) error {
	return m.setStatus(id, SyncDone)
}

func (m *MemoryRepository) MarkSyncError(_ context.Context, id int64) error {
	return m.setStatus(id, SyncError)
}

// SyncStatus reports the mirror state of a row.
func (m *MemoryRepository) SyncStatus(_ context.Context, id int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexLocked(id); i >= 0 {
		return m.rows[i].status, nil
	}
	return "", ErrNotFound
}

func (m *MemoryRepository) setStatus(id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	m.rows[i].status = status
	return nil
}

// ids are assigned in order, so the slice is sorted by id.
func (m *MemoryRepository) indexLocked(id int64) int {
	i, ok := slices.BinarySearchFunc(m.rows, id, func(r memoryRow, id int64) int {
		switch {
		case r.tx.ID < id:
			return -1
		case r.tx.ID > id:
			return 1
		}
		return 0
	})
	if !ok {
		return -1
	}
	return i
}

func (m *MemoryRepository) Ping(context.Context) error { return nil }
func (m *MemoryRepository) Close() error               { return nil }
