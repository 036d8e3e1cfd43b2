package recovery_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/payment"
	"github.com/geohub/geod/internal/payment/recovery"
	"github.com/geohub/geod/internal/router"
	"github.com/geohub/geod/internal/store"
	"github.com/geohub/geod/internal/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTransaction(t *testing.T, s store.Store, status domain.TransactionStatus, createdAt time.Time) *domain.Transaction {
	t.Helper()
	tx := &domain.Transaction{
		ID:         "tx-" + string(status),
		Type:       domain.TransactionPayment,
		Status:     status,
		Equivalent: "USD",
		From:       "alice",
		To:         "bob",
		Amount:     10,
		CreatedAt:  createdAt,
	}
	require.NoError(t, s.Transactions().Create(context.Background(), tx))
	return tx
}

func TestSweepReapsExpiredPrepareLock(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	tx := insertTransaction(t, s, domain.StatusPrepared, time.Now().UTC().Add(-time.Minute))
	require.NoError(t, s.PrepareLocks().Insert(ctx, &domain.PrepareLock{
		ID:            "lock-1",
		TransactionID: tx.ID,
		Equivalent:    "USD",
		From:          "alice",
		To:            "bob",
		Amount:        10,
		ExpiresAt:     time.Now().UTC().Add(-time.Second),
	}))

	eng := payment.New(s, router.New(s), payment.DefaultConfig())
	loop := recovery.New(s, eng, nil, recovery.DefaultConfig())

	require.NoError(t, loop.Sweep(ctx))

	reloaded, err := s.Transactions().Get(ctx, tx.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusAborted, reloaded.Status)

	locks, err := s.PrepareLocks().ListByTransaction(ctx, tx.ID)
	require.NoError(t, err)
	require.Empty(t, locks)
}

func TestSweepReapsOrphanedNew(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	tx := insertTransaction(t, s, domain.StatusNew, time.Now().UTC().Add(-time.Hour))

	eng := payment.New(s, router.New(s), payment.DefaultConfig())
	cfg := recovery.DefaultConfig()
	cfg.OrphanAfter = time.Minute
	loop := recovery.New(s, eng, nil, cfg)

	require.NoError(t, loop.Sweep(ctx))

	reloaded, err := s.Transactions().Get(ctx, tx.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusAborted, reloaded.Status)
}

func TestSweepLeavesFreshTransactionsAlone(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	tx := insertTransaction(t, s, domain.StatusNew, time.Now().UTC())

	eng := payment.New(s, router.New(s), payment.DefaultConfig())
	loop := recovery.New(s, eng, nil, recovery.DefaultConfig())

	require.NoError(t, loop.Sweep(ctx))

	reloaded, err := s.Transactions().Get(ctx, tx.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusNew, reloaded.Status)
}
