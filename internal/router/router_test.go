package router_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geohub/geod/internal/apperr"
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

func upsertLine(t *testing.T, s store.Store, creditor, debtor, equivalent string, limit int64) {
	t.Helper()
	require.NoError(t, s.TrustLines().Upsert(context.Background(), &domain.TrustLine{
		Creditor: creditor, Debtor: debtor, Equivalent: equivalent, Limit: limit,
	}))
}

func TestFindRoutesDirectPath(t *testing.T) {
	s := newStore(t)
	upsertLine(t, s, "bob", "alice", "USD", 100)

	r := router.New(s)
	plans, err := r.FindRoutes(context.Background(), "alice", "bob", "USD", 40, router.DefaultConstraints())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.Equal(t, int64(40), plans[0].Assigned)
	require.Equal(t, "alice", plans[0].Hops[0].From)
	require.Equal(t, "bob", plans[0].Hops[0].To)
}

func TestFindRoutesMultiHop(t *testing.T) {
	s := newStore(t)
	upsertLine(t, s, "bob", "alice", "USD", 100)
	upsertLine(t, s, "carol", "bob", "USD", 100)

	r := router.New(s)
	plans, err := r.FindRoutes(context.Background(), "alice", "carol", "USD", 30, router.DefaultConstraints())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.Len(t, plans[0].Hops, 2)
	require.Equal(t, int64(30), plans[0].Assigned)
}

func TestFindRoutesInsufficientCapacity(t *testing.T) {
	s := newStore(t)
	upsertLine(t, s, "bob", "alice", "USD", 10)

	r := router.New(s)
	_, err := r.FindRoutes(context.Background(), "alice", "bob", "USD", 40, router.DefaultConstraints())
	require.Error(t, err)
	require.Equal(t, apperr.InsufficientCapacity, apperr.CodeOf(err))
}

func TestFindRoutesSplitsAcrossPaths(t *testing.T) {
	s := newStore(t)
	// Two independent paths from alice to dave via bob and via carol.
	upsertLine(t, s, "bob", "alice", "USD", 20)
	upsertLine(t, s, "dave", "bob", "USD", 20)
	upsertLine(t, s, "carol", "alice", "USD", 20)
	upsertLine(t, s, "dave", "carol", "USD", 20)

	r := router.New(s)
	plans, err := r.FindRoutes(context.Background(), "alice", "dave", "USD", 30, router.DefaultConstraints())
	require.NoError(t, err)

	var total int64
	for _, p := range plans {
		total += p.Assigned
	}
	require.Equal(t, int64(30), total)
}

func TestFindRoutesRespectsBlockedParticipants(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.TrustLines().Upsert(context.Background(), &domain.TrustLine{
		Creditor: "bob", Debtor: "alice", Equivalent: "USD", Limit: 100,
		Policy: domain.TrustLinePolicy{BlockedParticipants: []string{"alice"}},
	}))

	r := router.New(s)
	_, err := r.FindRoutes(context.Background(), "alice", "bob", "USD", 10, router.DefaultConstraints())
	require.Error(t, err)
	require.Equal(t, apperr.InsufficientCapacity, apperr.CodeOf(err))
}

func TestFindRoutesOmitsSegmentWhoseIntermediateRefusesRelay(t *testing.T) {
	s := newStore(t)
	// bob refuses to act as an intermediate relay on the credit he
	// extends to alice: alice can still pay bob directly, but alice
	// cannot route further through bob to carol.
	refuses := false
	require.NoError(t, s.TrustLines().Upsert(context.Background(), &domain.TrustLine{
		Creditor: "bob", Debtor: "alice", Equivalent: "USD", Limit: 100,
		Policy: domain.TrustLinePolicy{CanBeIntermediate: &refuses},
	}))
	upsertLine(t, s, "carol", "bob", "USD", 100)

	r := router.New(s)

	_, err := r.FindRoutes(context.Background(), "alice", "carol", "USD", 10, router.DefaultConstraints())
	require.Error(t, err)
	require.Equal(t, apperr.InsufficientCapacity, apperr.CodeOf(err))

	plans, err := r.FindRoutes(context.Background(), "alice", "bob", "USD", 10, router.DefaultConstraints())
	require.NoError(t, err)
	require.Len(t, plans, 1)
}
