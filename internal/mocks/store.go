// Code generated by MockGen for store.Store and store.Tx. Hand-maintained
// in this tree since protoc/mockgen cannot be invoked here, following the
// structure mockgen itself emits: one Mock<Iface> struct wrapping a
// gomock.Controller plus a Mock<Iface>MockRecorder for EXPECT().
package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/geohub/geod/internal/domain"
	"github.com/geohub/geod/internal/store"
)

// MockStore is a mock of the store.Store interface.
type MockStore struct {
	ctrl     *gomock.Controller
	recorder *MockStoreMockRecorder
}

// MockStoreMockRecorder is the mock recorder for MockStore.
type MockStoreMockRecorder struct {
	mock *MockStore
}

// NewMockStore creates a new mock instance.
func NewMockStore(ctrl *gomock.Controller) *MockStore {
	m := &MockStore{ctrl: ctrl}
	m.recorder = &MockStoreMockRecorder{m}
	return m
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStore) EXPECT() *MockStoreMockRecorder {
	return m.recorder
}

func (m *MockStore) Participants() store.ParticipantRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Participants")
	ret0, _ := ret[0].(store.ParticipantRepository)
	return ret0
}

func (mr *MockStoreMockRecorder) Participants() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Participants", reflect.TypeOf((*MockStore)(nil).Participants))
}

func (m *MockStore) Equivalents() store.EquivalentRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Equivalents")
	ret0, _ := ret[0].(store.EquivalentRepository)
	return ret0
}

func (mr *MockStoreMockRecorder) Equivalents() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Equivalents", reflect.TypeOf((*MockStore)(nil).Equivalents))
}

func (m *MockStore) TrustLines() store.TrustLineRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TrustLines")
	ret0, _ := ret[0].(store.TrustLineRepository)
	return ret0
}

func (mr *MockStoreMockRecorder) TrustLines() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TrustLines", reflect.TypeOf((*MockStore)(nil).TrustLines))
}

func (m *MockStore) Debts() store.DebtRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Debts")
	ret0, _ := ret[0].(store.DebtRepository)
	return ret0
}

func (mr *MockStoreMockRecorder) Debts() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Debts", reflect.TypeOf((*MockStore)(nil).Debts))
}

func (m *MockStore) Transactions() store.TransactionRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Transactions")
	ret0, _ := ret[0].(store.TransactionRepository)
	return ret0
}

func (mr *MockStoreMockRecorder) Transactions() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Transactions", reflect.TypeOf((*MockStore)(nil).Transactions))
}

func (m *MockStore) PrepareLocks() store.PrepareLockRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PrepareLocks")
	ret0, _ := ret[0].(store.PrepareLockRepository)
	return ret0
}

func (mr *MockStoreMockRecorder) PrepareLocks() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PrepareLocks", reflect.TypeOf((*MockStore)(nil).PrepareLocks))
}

func (m *MockStore) Audit() store.AuditRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Audit")
	ret0, _ := ret[0].(store.AuditRepository)
	return ret0
}

func (mr *MockStoreMockRecorder) Audit() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Audit", reflect.TypeOf((*MockStore)(nil).Audit))
}

func (m *MockStore) BeginTx(ctx context.Context) (store.Tx, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BeginTx", ctx)
	ret0, _ := ret[0].(store.Tx)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockStoreMockRecorder) BeginTx(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BeginTx", reflect.TypeOf((*MockStore)(nil).BeginTx), ctx)
}

func (m *MockStore) WithTx(ctx context.Context, fn func(store.Tx) error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WithTx", ctx, fn)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockStoreMockRecorder) WithTx(ctx, fn interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WithTx", reflect.TypeOf((*MockStore)(nil).WithTx), ctx, fn)
}

func (m *MockStore) Ping(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Ping", ctx)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockStoreMockRecorder) Ping(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Ping", reflect.TypeOf((*MockStore)(nil).Ping), ctx)
}

func (m *MockStore) Close() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close")
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockStoreMockRecorder) Close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockStore)(nil).Close))
}

// MockTx is a mock of the store.Tx interface.
type MockTx struct {
	ctrl     *gomock.Controller
	recorder *MockTxMockRecorder
}

// MockTxMockRecorder is the mock recorder for MockTx.
type MockTxMockRecorder struct {
	mock *MockTx
}

// NewMockTx creates a new mock instance.
func NewMockTx(ctrl *gomock.Controller) *MockTx {
	m := &MockTx{ctrl: ctrl}
	m.recorder = &MockTxMockRecorder{m}
	return m
}

func (m *MockTx) EXPECT() *MockTxMockRecorder {
	return m.recorder
}

func (m *MockTx) Participants() store.ParticipantRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Participants")
	ret0, _ := ret[0].(store.ParticipantRepository)
	return ret0
}

func (mr *MockTxMockRecorder) Participants() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Participants", reflect.TypeOf((*MockTx)(nil).Participants))
}

func (m *MockTx) Equivalents() store.EquivalentRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Equivalents")
	ret0, _ := ret[0].(store.EquivalentRepository)
	return ret0
}

func (mr *MockTxMockRecorder) Equivalents() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Equivalents", reflect.TypeOf((*MockTx)(nil).Equivalents))
}

func (m *MockTx) TrustLines() store.TrustLineRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TrustLines")
	ret0, _ := ret[0].(store.TrustLineRepository)
	return ret0
}

func (mr *MockTxMockRecorder) TrustLines() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TrustLines", reflect.TypeOf((*MockTx)(nil).TrustLines))
}

func (m *MockTx) Debts() store.DebtRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Debts")
	ret0, _ := ret[0].(store.DebtRepository)
	return ret0
}

func (mr *MockTxMockRecorder) Debts() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Debts", reflect.TypeOf((*MockTx)(nil).Debts))
}

func (m *MockTx) Transactions() store.TransactionRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Transactions")
	ret0, _ := ret[0].(store.TransactionRepository)
	return ret0
}

func (mr *MockTxMockRecorder) Transactions() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Transactions", reflect.TypeOf((*MockTx)(nil).Transactions))
}

func (m *MockTx) PrepareLocks() store.PrepareLockRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PrepareLocks")
	ret0, _ := ret[0].(store.PrepareLockRepository)
	return ret0
}

func (mr *MockTxMockRecorder) PrepareLocks() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PrepareLocks", reflect.TypeOf((*MockTx)(nil).PrepareLocks))
}

func (m *MockTx) Audit() store.AuditRepository {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Audit")
	ret0, _ := ret[0].(store.AuditRepository)
	return ret0
}

func (mr *MockTxMockRecorder) Audit() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Audit", reflect.TypeOf((*MockTx)(nil).Audit))
}

func (m *MockTx) Locker() store.AdvisoryLocker {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Locker")
	ret0, _ := ret[0].(store.AdvisoryLocker)
	return ret0
}

func (mr *MockTxMockRecorder) Locker() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Locker", reflect.TypeOf((*MockTx)(nil).Locker))
}

func (m *MockTx) Commit(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Commit", ctx)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockTxMockRecorder) Commit(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Commit", reflect.TypeOf((*MockTx)(nil).Commit), ctx)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Rollback", ctx)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockTxMockRecorder) Rollback(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Rollback", reflect.TypeOf((*MockTx)(nil).Rollback), ctx)
}

// MockTransactionRepository is a mock of the store.TransactionRepository
// interface, used to exercise recovery and payment callers that only touch
// the transaction table.
type MockTransactionRepository struct {
	ctrl     *gomock.Controller
	recorder *MockTransactionRepositoryMockRecorder
}

type MockTransactionRepositoryMockRecorder struct {
	mock *MockTransactionRepository
}

func NewMockTransactionRepository(ctrl *gomock.Controller) *MockTransactionRepository {
	m := &MockTransactionRepository{ctrl: ctrl}
	m.recorder = &MockTransactionRepositoryMockRecorder{m}
	return m
}

func (m *MockTransactionRepository) EXPECT() *MockTransactionRepositoryMockRecorder {
	return m.recorder
}

func (m *MockTransactionRepository) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.Transaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockTransactionRepositoryMockRecorder) Get(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockTransactionRepository)(nil).Get), ctx, id)
}

func (m *MockTransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByIdempotencyKey", ctx, key)
	ret0, _ := ret[0].(*domain.Transaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockTransactionRepositoryMockRecorder) GetByIdempotencyKey(ctx, key interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByIdempotencyKey", reflect.TypeOf((*MockTransactionRepository)(nil).GetByIdempotencyKey), ctx, key)
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, tx)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockTransactionRepositoryMockRecorder) Create(ctx, tx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockTransactionRepository)(nil).Create), ctx, tx)
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateStatus", ctx, id, status)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockTransactionRepositoryMockRecorder) UpdateStatus(ctx, id, status interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateStatus", reflect.TypeOf((*MockTransactionRepository)(nil).UpdateStatus), ctx, id, status)
}

func (m *MockTransactionRepository) SeenNonce(ctx context.Context, equivalent, from, nonce string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SeenNonce", ctx, equivalent, from, nonce)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockTransactionRepositoryMockRecorder) SeenNonce(ctx, equivalent, from, nonce interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SeenNonce", reflect.TypeOf((*MockTransactionRepository)(nil).SeenNonce), ctx, equivalent, from, nonce)
}

func (m *MockTransactionRepository) ListStaleNew(ctx context.Context, olderThan time.Time, limit int) ([]domain.Transaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListStaleNew", ctx, olderThan, limit)
	ret0, _ := ret[0].([]domain.Transaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockTransactionRepositoryMockRecorder) ListStaleNew(ctx, olderThan, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListStaleNew", reflect.TypeOf((*MockTransactionRepository)(nil).ListStaleNew), ctx, olderThan, limit)
}

// MockPrepareLockRepository is a mock of the store.PrepareLockRepository
// interface.
type MockPrepareLockRepository struct {
	ctrl     *gomock.Controller
	recorder *MockPrepareLockRepositoryMockRecorder
}

type MockPrepareLockRepositoryMockRecorder struct {
	mock *MockPrepareLockRepository
}

func NewMockPrepareLockRepository(ctrl *gomock.Controller) *MockPrepareLockRepository {
	m := &MockPrepareLockRepository{ctrl: ctrl}
	m.recorder = &MockPrepareLockRepositoryMockRecorder{m}
	return m
}

func (m *MockPrepareLockRepository) EXPECT() *MockPrepareLockRepositoryMockRecorder {
	return m.recorder
}

func (m *MockPrepareLockRepository) Insert(ctx context.Context, l *domain.PrepareLock) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Insert", ctx, l)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockPrepareLockRepositoryMockRecorder) Insert(ctx, l interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Insert", reflect.TypeOf((*MockPrepareLockRepository)(nil).Insert), ctx, l)
}

func (m *MockPrepareLockRepository) Delete(ctx context.Context, id string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockPrepareLockRepositoryMockRecorder) Delete(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockPrepareLockRepository)(nil).Delete), ctx, id)
}

func (m *MockPrepareLockRepository) ListByTransaction(ctx context.Context, txID string) ([]domain.PrepareLock, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByTransaction", ctx, txID)
	ret0, _ := ret[0].([]domain.PrepareLock)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockPrepareLockRepositoryMockRecorder) ListByTransaction(ctx, txID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByTransaction", reflect.TypeOf((*MockPrepareLockRepository)(nil).ListByTransaction), ctx, txID)
}

func (m *MockPrepareLockRepository) ListExpired(ctx context.Context, asOf time.Time, limit int) ([]domain.PrepareLock, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListExpired", ctx, asOf, limit)
	ret0, _ := ret[0].([]domain.PrepareLock)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockPrepareLockRepositoryMockRecorder) ListExpired(ctx, asOf, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListExpired", reflect.TypeOf((*MockPrepareLockRepository)(nil).ListExpired), ctx, asOf, limit)
}

func (m *MockPrepareLockRepository) ListBySegment(ctx context.Context, equivalent, a, b string) ([]domain.PrepareLock, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListBySegment", ctx, equivalent, a, b)
	ret0, _ := ret[0].([]domain.PrepareLock)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockPrepareLockRepositoryMockRecorder) ListBySegment(ctx, equivalent, a, b interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListBySegment", reflect.TypeOf((*MockPrepareLockRepository)(nil).ListBySegment), ctx, equivalent, a, b)
}
