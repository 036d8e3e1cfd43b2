package registry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/eventbus"
	"github.com/geohub/geod/internal/registry"
	"github.com/geohub/geod/internal/router"
	"github.com/geohub/geod/internal/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateEquivalentAudits(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	reg := registry.New(s, router.New(s))

	eq, err := reg.CreateEquivalent(ctx, "alice", "USD", 2)
	require.NoError(t, err)
	require.Equal(t, "USD", eq.Code)
	require.Equal(t, domain.EquivalentActive, eq.Status)

	records, err := s.Audit().ListBySubject(ctx, "USD", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "equivalent.create", records[0].Action)
	require.Equal(t, "alice", records[0].Actor)
}

func TestUpsertTrustLinePublishesEvent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	bus := eventbus.New()
	reg := registry.New(s, router.New(s))
	reg.SetEventBus(bus)

	events, cancel := bus.Subscribe(eventbus.ForTypes(eventbus.TrustlineUpdated))
	defer cancel()

	err := reg.UpsertTrustLine(ctx, "alice", domain.TrustLine{
		Creditor: "alice", Debtor: "bob", Equivalent: "USD", Limit: 1000,
	}, nil)
	require.NoError(t, err)

	select {
	case ev := <-events:
		require.Equal(t, eventbus.TrustlineUpdated, ev.Type)
		require.True(t, ev.Involves("alice"))
		require.True(t, ev.Involves("bob"))
	case <-time.After(time.Second):
		t.Fatal("expected trustline.updated event")
	}

	line, err := s.TrustLines().Get(ctx, "alice", "bob", "USD")
	require.NoError(t, err)
	require.Equal(t, int64(1000), line.Limit)
}

func TestCloseTrustLineRejectsWhenDebtOutstanding(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	reg := registry.New(s, router.New(s))

	require.NoError(t, reg.UpsertTrustLine(ctx, "alice", domain.TrustLine{
		Creditor: "alice", Debtor: "bob", Equivalent: "USD", Limit: 1000,
	}, nil))
	require.NoError(t, s.Debts().Set(ctx, &domain.Debt{
		Debtor: "bob", Creditor: "alice", Equivalent: "USD", Amount: 100, UpdatedAt: time.Now().UTC(),
	}))

	err := reg.CloseTrustLine(ctx, "alice", "alice", "bob", "USD")
	require.Error(t, err)

	line, err := s.TrustLines().Get(ctx, "alice", "bob", "USD")
	require.NoError(t, err)
	require.Equal(t, domain.TrustLineActive, line.Status)
}

func TestCloseTrustLineSucceedsWhenDebtIsZero(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	bus := eventbus.New()
	reg := registry.New(s, router.New(s))
	reg.SetEventBus(bus)

	require.NoError(t, reg.UpsertTrustLine(ctx, "alice", domain.TrustLine{
		Creditor: "alice", Debtor: "bob", Equivalent: "USD", Limit: 1000,
	}, nil))

	events, cancel := bus.Subscribe(eventbus.ForTypes(eventbus.TrustlineUpdated))
	defer cancel()

	require.NoError(t, reg.CloseTrustLine(ctx, "alice", "alice", "bob", "USD"))

	line, err := s.TrustLines().Get(ctx, "alice", "bob", "USD")
	require.NoError(t, err)
	require.Equal(t, domain.TrustLineClosed, line.Status)

	select {
	case ev := <-events:
		require.Equal(t, eventbus.TrustlineUpdated, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected trustline.updated event")
	}
}

func TestUpsertTrustLineRejectsUnknownPolicyField(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	reg := registry.New(s, router.New(s))

	err := reg.UpsertTrustLine(ctx, "alice", domain.TrustLine{
		Creditor: "alice", Debtor: "bob", Equivalent: "USD", Limit: 1000,
	}, []byte(`{"auto_clearing": true, "unexpected_field": 1}`))
	require.Error(t, err)

	_, getErr := s.TrustLines().Get(ctx, "alice", "bob", "USD")
	require.Error(t, getErr)
}
