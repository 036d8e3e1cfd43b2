package invariant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geohub/geod/internal/apperr"
	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/invariant"
	"github.com/geohub/geod/internal/store"
	"github.com/geohub/geod/internal/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedTrustLine(t *testing.T, tx store.Tx, creditor, debtor, equivalent string, limit int64) {
	t.Helper()
	require.NoError(t, tx.TrustLines().Upsert(context.Background(), &domain.TrustLine{
		Creditor: creditor, Debtor: debtor, Equivalent: equivalent, Limit: limit,
	}))
}

func seedDebt(t *testing.T, tx store.Tx, debtor, creditor, equivalent string, amount int64) {
	t.Helper()
	require.NoError(t, tx.Debts().Set(context.Background(), &domain.Debt{
		Debtor: debtor, Creditor: creditor, Equivalent: equivalent, Amount: amount,
	}))
}

func TestCheckPairsTrustLimit(t *testing.T) {
	testcases := []struct {
		name      string
		limit     int64
		debt      int64
		wantError bool
	}{
		{name: "within limit", limit: 100, debt: 50, wantError: false},
		{name: "at limit", limit: 100, debt: 100, wantError: false},
		{name: "exceeds limit", limit: 100, debt: 150, wantError: true},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t)
			ctx := context.Background()
			tx, err := s.BeginTx(ctx)
			require.NoError(t, err)
			defer tx.Rollback(ctx)

			seedTrustLine(t, tx, "alice", "bob", "USD", tc.limit)
			seedDebt(t, tx, "bob", "alice", "USD", tc.debt)

			err = invariant.New(tx).CheckPairs(ctx, "USD", []invariant.Pair{{Debtor: "bob", Creditor: "alice"}})
			if tc.wantError {
				require.Error(t, err)
				require.Equal(t, apperr.InvariantViolation, apperr.CodeOf(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCheckPairsMissingTrustLine(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	seedDebt(t, tx, "bob", "alice", "USD", 10)

	err = invariant.New(tx).CheckPairs(ctx, "USD", []invariant.Pair{{Debtor: "bob", Creditor: "alice"}})
	require.Error(t, err)
	require.Equal(t, apperr.InvariantViolation, apperr.CodeOf(err))
}

func TestCheckPairsSelfDebt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	err = invariant.New(tx).CheckPairs(ctx, "USD", []invariant.Pair{{Debtor: "alice", Creditor: "alice"}})
	require.Error(t, err)
	require.Equal(t, apperr.InvariantViolation, apperr.CodeOf(err))
}

func TestCheckZeroSum(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	seedDebt(t, tx, "bob", "alice", "USD", 30)
	seedDebt(t, tx, "carol", "bob", "USD", 10)

	require.NoError(t, invariant.New(tx).CheckZeroSum(ctx, "USD"))
}

func TestCheckNeutralityDetectsChange(t *testing.T) {
	tx := newInvariantlessTx(t)
	ctx := context.Background()

	before := map[string]invariant.Balance{"alice": 10, "bob": -10}
	after := map[string]invariant.Balance{"alice": 5, "bob": -5}

	err := invariant.New(tx).CheckNeutrality(ctx, "USD", before, after)
	require.Error(t, err)
	require.Equal(t, apperr.InvariantViolation, apperr.CodeOf(err))
}

func TestCheckNeutralityAcceptsUnchanged(t *testing.T) {
	tx := newInvariantlessTx(t)
	ctx := context.Background()

	before := map[string]invariant.Balance{"alice": 10, "bob": -10}
	after := map[string]invariant.Balance{"alice": 10, "bob": -10}

	require.NoError(t, invariant.New(tx).CheckNeutrality(ctx, "USD", before, after))
}

func newInvariantlessTx(t *testing.T) store.Tx {
	t.Helper()
	s := newTestStore(t)
	tx, err := s.BeginTx(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { tx.Rollback(context.Background()) })
	return tx
}
