package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/storage"
)

type fakeSheet struct {
	mu   sync.Mutex
	rows []core.Transaction
	err  error
	// onAppend runs before the row is stored, outside the lock.
	onAppend func(t core.Transaction)
}

func (f *fakeSheet) Append(_ context.Context, t core.Transaction) (string, error) {
	if f.onAppend != nil {
		f.onAppend(t)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.rows = append(f.rows, t)
	return "Expenses!A1:F1", nil
}

func (f *fakeSheet) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func seed(t *testing.T, repo *storage.MemoryRepository, n int) []int64 {
	t.Helper()
	var ids []int64
	for i := 0; i < n; i++ {
		id, err := repo.Insert(context.Background(), core.Transaction{
			Date:     core.NewDate(2024, 3, 1+i),
			Type:     "Expense",
			Category: core.Want,
			Amount:   decimal.NewFromInt(int64(10 + i)),
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func newWorker(repo *storage.MemoryRepository, sheet *fakeSheet, batch int) *MirrorWorker {
	return NewMirrorWorker(repo, sheet, batch, log.New(log.Config{Output: io.Discard}))
}

func TestMirrorWorker_HandleRecorded(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	sheet := &fakeSheet{}
	w := newWorker(repo, sheet, 10)
	ids := seed(t, repo, 1)

	msg := amqp.NewExpenseRecordedMessage(ids[0])
	require.NoError(t, w.HandleRecorded(ctx, msg))
	require.NoError(t, w.HandleRecorded(ctx, msg), "redelivery is acknowledged")

	assert.Equal(t, 1, sheet.count(), "duplicate delivery must not write twice")
	status, err := repo.SyncStatus(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, storage.SyncDone, status)
}

func TestMirrorWorker_HandleRecordedMissingRow(t *testing.T) {
	w := newWorker(storage.NewMemoryRepository(), &fakeSheet{}, 10)
	assert.NoError(t, w.HandleRecorded(context.Background(), amqp.NewExpenseRecordedMessage(404)))
}

func TestMirrorWorker_AppendFailureMarksError(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	sheet := &fakeSheet{err: errors.New("quota exceeded")}
	w := newWorker(repo, sheet, 10)
	ids := seed(t, repo, 1)

	require.NoError(t, w.HandleRecorded(ctx, amqp.NewExpenseRecordedMessage(ids[0])))

	status, err := repo.SyncStatus(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, storage.SyncError, status)
}

func TestMirrorWorker_ProcessPending(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	sheet := &fakeSheet{}
	w := newWorker(repo, sheet, 2)
	seed(t, repo, 3)

	res, err := w.ProcessPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Processed: 2}, res)

	res, err = w.ProcessPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Processed: 1}, res)

	res, err = w.ProcessPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, res)
	assert.Equal(t, 3, sheet.count())
}

func TestMirrorWorker_MessageDuringSweepWritesOnce(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	sheet := &fakeSheet{}
	w := newWorker(repo, sheet, 10)
	ids := seed(t, repo, 1)

	delivered := false
	sheet.onAppend = func(tx core.Transaction) {
		if delivered {
			return
		}
		delivered = true
		assert.NoError(t, w.HandleRecorded(ctx, amqp.NewExpenseRecordedMessage(tx.ID)))
	}

	res, err := w.ProcessPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Processed: 1}, res)
	assert.True(t, delivered)
	assert.Equal(t, 1, sheet.count())

	status, err := repo.SyncStatus(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, storage.SyncDone, status)
}

func TestMirrorWorker_ConcurrentDeliveriesWriteOnce(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	sheet := &fakeSheet{}
	w := newWorker(repo, sheet, 10)
	ids := seed(t, repo, 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.HandleRecorded(ctx, amqp.NewExpenseRecordedMessage(ids[0])))
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := w.ProcessPending(ctx)
		assert.NoError(t, err)
	}()
	wg.Wait()

	assert.Equal(t, 1, sheet.count())
}

func TestMirrorWorker_RunStopsOnCancel(t *testing.T) {
	repo := storage.NewMemoryRepository()
	sheet := &fakeSheet{}
	w := newWorker(repo, sheet, 10)
	seed(t, repo, 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, time.Hour) }()

	require.Eventually(t, func() bool { return sheet.count() == 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
