package mocks_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/geohub/geod/internal/mocks"
	"github.com/geohub/geod/internal/payment"
	"github.com/geohub/geod/internal/payment/recovery"
	"github.com/geohub/geod/internal/router"
)

// TestSweepWithNoExpiredWorkUsesOnlyTheTwoListCalls drives a recovery
// sweep entirely against mocked repositories, asserting it reads the
// expired-lock and stale-transaction lists with the configured sweep
// limit and touches nothing else when both come back empty.
func TestSweepWithNoExpiredWorkUsesOnlyTheTwoListCalls(t *testing.T) {
	ctrl := gomock.NewController(t)

	s := mocks.NewMockStore(ctrl)
	locks := mocks.NewMockPrepareLockRepository(ctrl)
	txs := mocks.NewMockTransactionRepository(ctrl)

	s.EXPECT().PrepareLocks().Return(locks).AnyTimes()
	s.EXPECT().Transactions().Return(txs).AnyTimes()

	locks.EXPECT().ListExpired(gomock.Any(), gomock.Any(), 500).Return(nil, nil)
	txs.EXPECT().ListStaleNew(gomock.Any(), gomock.Any(), 500).Return(nil, nil)

	engine := payment.New(s, router.New(s), payment.DefaultConfig())
	loop := recovery.New(s, engine, nil, recovery.DefaultConfig())

	require.NoError(t, loop.Sweep(context.Background()))
}

// TestSweepPropagatesExpiredLockListingError asserts Sweep surfaces a
// repository error rather than swallowing it, without ever reaching
// the stale-transaction listing.
func TestSweepPropagatesExpiredLockListingError(t *testing.T) {
	ctrl := gomock.NewController(t)

	s := mocks.NewMockStore(ctrl)
	locks := mocks.NewMockPrepareLockRepository(ctrl)

	s.EXPECT().PrepareLocks().Return(locks).AnyTimes()
	locks.EXPECT().ListExpired(gomock.Any(), gomock.Any(), 500).Return(nil, context.DeadlineExceeded)

	engine := payment.New(s, router.New(s), payment.DefaultConfig())
	loop := recovery.New(s, engine, nil, recovery.DefaultConfig())

	require.ErrorIs(t, loop.Sweep(context.Background()), context.DeadlineExceeded)
}
