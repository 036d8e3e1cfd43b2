package clearing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geohub/geod/internal/apperr"
	"github.com/geohub/geod/internal/clearing"
	"github.com/geohub/geod/internal/domain"
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

func seedLine(t *testing.T, s store.Store, creditor, debtor, equivalent string, limit int64, autoClearing bool) {
	t.Helper()
	require.NoError(t, s.TrustLines().Upsert(context.Background(), &domain.TrustLine{
		Creditor: creditor, Debtor: debtor, Equivalent: equivalent, Limit: limit,
		Policy: domain.TrustLinePolicy{AutoClearing: autoClearing},
	}))
}

func seedDebt(t *testing.T, s store.Store, debtor, creditor, equivalent string, amount int64) {
	t.Helper()
	require.NoError(t, s.Debts().Set(context.Background(), &domain.Debt{
		Debtor: debtor, Creditor: creditor, Equivalent: equivalent, Amount: amount,
	}))
}

func TestRunPeriodicNetsTriangle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	// alice -> bob -> carol -> alice, all owing 10.
	seedLine(t, s, "bob", "alice", "USD", 100, true)
	seedLine(t, s, "carol", "bob", "USD", 100, true)
	seedLine(t, s, "alice", "carol", "USD", 100, true)
	seedDebt(t, s, "alice", "bob", "USD", 10)
	seedDebt(t, s, "bob", "carol", "USD", 10)
	seedDebt(t, s, "carol", "alice", "USD", 10)

	eng := clearing.New(s, router.New(s), clearing.DefaultConfig())
	applied, err := eng.RunPeriodic(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, 1, applied)

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "carol"}, {"carol", "alice"}} {
		_, err := s.Debts().Get(ctx, pair[0], pair[1], "USD")
		require.Equal(t, apperr.NotFound, apperr.CodeOf(err))
	}
}

func TestRunPeriodicSkipsPolicyBlockedCycle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	seedLine(t, s, "bob", "alice", "USD", 100, true)
	seedLine(t, s, "carol", "bob", "USD", 100, true)
	seedLine(t, s, "alice", "carol", "USD", 100, false) // blocks clearing
	seedDebt(t, s, "alice", "bob", "USD", 10)
	seedDebt(t, s, "bob", "carol", "USD", 10)
	seedDebt(t, s, "carol", "alice", "USD", 10)

	eng := clearing.New(s, router.New(s), clearing.DefaultConfig())
	applied, err := eng.RunPeriodic(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, 0, applied)

	d, err := s.Debts().Get(ctx, "alice", "bob", "USD")
	require.NoError(t, err)
	require.NotNil(t, d)
	require.Equal(t, int64(10), d.Amount)
}

func TestRunOnDemandNetsPartialCycle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	seedLine(t, s, "bob", "alice", "USD", 100, true)
	seedLine(t, s, "carol", "bob", "USD", 100, true)
	seedLine(t, s, "alice", "carol", "USD", 100, true)
	seedDebt(t, s, "alice", "bob", "USD", 15)
	seedDebt(t, s, "bob", "carol", "USD", 10)
	seedDebt(t, s, "carol", "alice", "USD", 10)

	eng := clearing.New(s, router.New(s), clearing.DefaultConfig())
	applied, err := eng.RunOnDemand(ctx, "USD", []domain.Pair{domain.NewPair("alice", "bob")})
	require.NoError(t, err)
	require.Equal(t, 1, applied)

	remaining, err := s.Debts().Get(ctx, "alice", "bob", "USD")
	require.NoError(t, err)
	require.NotNil(t, remaining)
	require.Equal(t, int64(5), remaining.Amount)

	_, err = s.Debts().Get(ctx, "bob", "carol", "USD")
	require.Equal(t, apperr.NotFound, apperr.CodeOf(err))
}
