//	mockgen -source=internal/usecase/interfaces.go -destination=internal/usecase/mocks/mock_interfaces.go -package=mocks
//

// Package mocks is a generated GoMock package.
package mocks

import (
	context "context"
	reflect "reflect"
	time "time"

	domain "github.com/iho/loanledger/internal/domain"
	gomock "go.uber.org/mock/gomock"
)

// MockLoanRepository is a mock of LoanRepository interface.
type MockLoanRepository struct {
	ctrl     *gomock.Controller
	recorder *MockLoanRepositoryMockRecorder
	isgomock struct{}
}

// MockLoanRepositoryMockRecorder is the mock recorder for MockLoanRepository.
type MockLoanRepositoryMockRecorder struct {
	mock *MockLoanRepository
}

// NewMockLoanRepository creates a new mock instance.
func NewMockLoanRepository(ctrl *gomock.Controller) *MockLoanRepository {
	mock := &MockLoanRepository{ctrl: ctrl}
	mock.recorder = &MockLoanRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLoanRepository) EXPECT() *MockLoanRepositoryMockRecorder {
	return m.recorder
}

// Count mocks base method.
func (m *MockLoanRepository) Count(ctx context.Context) (uint64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Count", ctx)
	ret0, _ := ret[0].(uint64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Count indicates an expected call of Count.
func (mr *MockLoanRepositoryMockRecorder) Count(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Count", reflect.TypeOf((*MockLoanRepository)(nil).Count), ctx)
}

// Get mocks base method.
func (m *MockLoanRepository) Get(ctx context.Context, id uint64) (*domain.Loan, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.Loan)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockLoanRepositoryMockRecorder) Get(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockLoanRepository)(nil).Get), ctx, id)
}

// Insert mocks base method.
func (m *MockLoanRepository) Insert(ctx context.Context, loan *domain.Loan) (uint64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Insert", ctx, loan)
	ret0, _ := ret[0].(uint64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Insert indicates an expected call of Insert.
func (mr *MockLoanRepositoryMockRecorder) Insert(ctx, loan any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Insert", reflect.TypeOf((*MockLoanRepository)(nil).Insert), ctx, loan)
}

// Update mocks base method.
func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, loan)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockLoanRepositoryMockRecorder) Update(ctx, loan any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockLoanRepository)(nil).Update), ctx, loan)
}

// MockProposalRepository is a mock of ProposalRepository interface.
type MockProposalRepository struct {
	ctrl     *gomock.Controller
	recorder *MockProposalRepositoryMockRecorder
	isgomock struct{}
}

// MockProposalRepositoryMockRecorder is the mock recorder for MockProposalRepository.
type MockProposalRepositoryMockRecorder struct {
	mock *MockProposalRepository
}

// NewMockProposalRepository creates a new mock instance.
func NewMockProposalRepository(ctrl *gomock.Controller) *MockProposalRepository {
	mock := &MockProposalRepository{ctrl: ctrl}
	mock.recorder = &MockProposalRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockProposalRepository) EXPECT() *MockProposalRepositoryMockRecorder {
	return m.recorder
}

// Count mocks base method.
func (m *MockProposalRepository) Count(ctx context.Context) (uint64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Count", ctx)
	ret0, _ := ret[0].(uint64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Count indicates an expected call of Count.
func (mr *MockProposalRepositoryMockRecorder) Count(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Count", reflect.TypeOf((*MockProposalRepository)(nil).Count), ctx)
}

// Get mocks base method.
func (m *MockProposalRepository) Get(ctx context.Context, id uint64) (*domain.Proposal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.Proposal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockProposalRepositoryMockRecorder) Get(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockProposalRepository)(nil).Get), ctx, id)
}

// Insert mocks base method.
func (m *MockProposalRepository) Insert(ctx context.Context, proposal *domain.Proposal) (uint64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Insert", ctx, proposal)
	ret0, _ := ret[0].(uint64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Insert indicates an expected call of Insert.
func (mr *MockProposalRepositoryMockRecorder) Insert(ctx, proposal any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Insert", reflect.TypeOf((*MockProposalRepository)(nil).Insert), ctx, proposal)
}

// Update mocks base method.
func (m *MockProposalRepository) Update(ctx context.Context, proposal *domain.Proposal) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, proposal)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockProposalRepositoryMockRecorder) Update(ctx, proposal any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockProposalRepository)(nil).Update), ctx, proposal)
}

// MockStakeRepository is a mock of StakeRepository interface.
type MockStakeRepository struct {
	ctrl     *gomock.Controller
	recorder *MockStakeRepositoryMockRecorder
	isgomock struct{}
}

// MockStakeRepositoryMockRecorder is the mock recorder for MockStakeRepository.
type MockStakeRepositoryMockRecorder struct {
	mock *MockStakeRepository
}

// NewMockStakeRepository creates a new mock instance.
func NewMockStakeRepository(ctrl *gomock.Controller) *MockStakeRepository {
	mock := &MockStakeRepository{ctrl: ctrl}
	mock.recorder = &MockStakeRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStakeRepository) EXPECT() *MockStakeRepositoryMockRecorder {
	return m.recorder
}

// Add mocks base method.
func (m *MockStakeRepository) Add(ctx context.Context, id string, delta int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Add", ctx, id, delta)
	ret0, _ := ret[0].(error)
	return ret0
}

// Add indicates an expected call of Add.
func (mr *MockStakeRepositoryMockRecorder) Add(ctx, id, delta any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Add", reflect.TypeOf((*MockStakeRepository)(nil).Add), ctx, id, delta)
}

// Balance mocks base method.
func (m *MockStakeRepository) Balance(ctx context.Context, id string) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Balance", ctx, id)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Balance indicates an expected call of Balance.
func (mr *MockStakeRepositoryMockRecorder) Balance(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Balance", reflect.TypeOf((*MockStakeRepository)(nil).Balance), ctx, id)
}

// Total mocks base method.
func (m *MockStakeRepository) Total(ctx context.Context) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Total", ctx)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Total indicates an expected call of Total.
func (mr *MockStakeRepositoryMockRecorder) Total(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Total", reflect.TypeOf((*MockStakeRepository)(nil).Total), ctx)
}

// MockBalanceRepository is a mock of BalanceRepository interface.
type MockBalanceRepository struct {
	ctrl     *gomock.Controller
	recorder *MockBalanceRepositoryMockRecorder
	isgomock struct{}
}

// MockBalanceRepositoryMockRecorder is the mock recorder for MockBalanceRepository.
type MockBalanceRepositoryMockRecorder struct {
	mock *MockBalanceRepository
}

// NewMockBalanceRepository creates a new mock instance.
func NewMockBalanceRepository(ctrl *gomock.Controller) *MockBalanceRepository {
	mock := &MockBalanceRepository{ctrl: ctrl}
	mock.recorder = &MockBalanceRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockBalanceRepository) EXPECT() *MockBalanceRepositoryMockRecorder {
	return m.recorder
}

// Credit mocks base method.
func (m *MockBalanceRepository) Credit(ctx context.Context, id string, amount int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Credit", ctx, id, amount)
	ret0, _ := ret[0].(error)
	return ret0
}

// Credit indicates an expected call of Credit.
func (mr *MockBalanceRepositoryMockRecorder) Credit(ctx, id, amount any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Credit", reflect.TypeOf((*MockBalanceRepository)(nil).Credit), ctx, id, amount)
}

// Drain mocks base method.
func (m *MockBalanceRepository) Drain(ctx context.Context, id string) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Drain", ctx, id)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Drain indicates an expected call of Drain.
func (mr *MockBalanceRepositoryMockRecorder) Drain(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Drain", reflect.TypeOf((*MockBalanceRepository)(nil).Drain), ctx, id)
}

// Pending mocks base method.
func (m *MockBalanceRepository) Pending(ctx context.Context, id string) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Pending", ctx, id)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Pending indicates an expected call of Pending.
func (mr *MockBalanceRepositoryMockRecorder) Pending(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Pending", reflect.TypeOf((*MockBalanceRepository)(nil).Pending), ctx, id)
}

// MockParamsRepository is a mock of ParamsRepository interface.
type MockParamsRepository struct {
	ctrl     *gomock.Controller
	recorder *MockParamsRepositoryMockRecorder
	isgomock struct{}
}

// MockParamsRepositoryMockRecorder is the mock recorder for MockParamsRepository.
type MockParamsRepositoryMockRecorder struct {
	mock *MockParamsRepository
}

// NewMockParamsRepository creates a new mock instance.
func NewMockParamsRepository(ctrl *gomock.Controller) *MockParamsRepository {
	mock := &MockParamsRepository{ctrl: ctrl}
	mock.recorder = &MockParamsRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockParamsRepository) EXPECT() *MockParamsRepositoryMockRecorder {
	return m.recorder
}

// AuthorizedLender mocks base method.
func (m *MockParamsRepository) AuthorizedLender(ctx context.Context, id string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AuthorizedLender", ctx, id)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AuthorizedLender indicates an expected call of AuthorizedLender.
func (mr *MockParamsRepositoryMockRecorder) AuthorizedLender(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AuthorizedLender", reflect.TypeOf((*MockParamsRepository)(nil).AuthorizedLender), ctx, id)
}

// BorrowerLimit mocks base method.
func (m *MockParamsRepository) BorrowerLimit(ctx context.Context, id string) (int64, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BorrowerLimit", ctx, id)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// BorrowerLimit indicates an expected call of BorrowerLimit.
func (mr *MockParamsRepositoryMockRecorder) BorrowerLimit(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BorrowerLimit", reflect.TypeOf((*MockParamsRepository)(nil).BorrowerLimit), ctx, id)
}

// DefaultInterestRate mocks base method.
func (m *MockParamsRepository) DefaultInterestRate(ctx context.Context) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DefaultInterestRate", ctx)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DefaultInterestRate indicates an expected call of DefaultInterestRate.
func (mr *MockParamsRepositoryMockRecorder) DefaultInterestRate(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DefaultInterestRate", reflect.TypeOf((*MockParamsRepository)(nil).DefaultInterestRate), ctx)
}

// Owner mocks base method.
func (m *MockParamsRepository) Owner(ctx context.Context) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Owner", ctx)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Owner indicates an expected call of Owner.
func (mr *MockParamsRepositoryMockRecorder) Owner(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Owner", reflect.TypeOf((*MockParamsRepository)(nil).Owner), ctx)
}

// Paused mocks base method.
func (m *MockParamsRepository) Paused(ctx context.Context) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Paused", ctx)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Paused indicates an expected call of Paused.
func (mr *MockParamsRepositoryMockRecorder) Paused(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Paused", reflect.TypeOf((*MockParamsRepository)(nil).Paused), ctx)
}

// SetAuthorizedLender mocks base method.
func (m *MockParamsRepository) SetAuthorizedLender(ctx context.Context, id string, authorized bool) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetAuthorizedLender", ctx, id, authorized)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetAuthorizedLender indicates an expected call of SetAuthorizedLender.
func (mr *MockParamsRepositoryMockRecorder) SetAuthorizedLender(ctx, id, authorized any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetAuthorizedLender", reflect.TypeOf((*MockParamsRepository)(nil).SetAuthorizedLender), ctx, id, authorized)
}

// SetBorrowerLimit mocks base method.
func (m *MockParamsRepository) SetBorrowerLimit(ctx context.Context, id string, limit int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetBorrowerLimit", ctx, id, limit)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetBorrowerLimit indicates an expected call of SetBorrowerLimit.
func (mr *MockParamsRepositoryMockRecorder) SetBorrowerLimit(ctx, id, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetBorrowerLimit", reflect.TypeOf((*MockParamsRepository)(nil).SetBorrowerLimit), ctx, id, limit)
}

// SetDefaultInterestRate mocks base method.
func (m *MockParamsRepository) SetDefaultInterestRate(ctx context.Context, rate int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetDefaultInterestRate", ctx, rate)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetDefaultInterestRate indicates an expected call of SetDefaultInterestRate.
func (mr *MockParamsRepositoryMockRecorder) SetDefaultInterestRate(ctx, rate any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetDefaultInterestRate", reflect.TypeOf((*MockParamsRepository)(nil).SetDefaultInterestRate), ctx, rate)
}

// SetPaused mocks base method.
func (m *MockParamsRepository) SetPaused(ctx context.Context, paused bool) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetPaused", ctx, paused)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetPaused indicates an expected call of SetPaused.
func (mr *MockParamsRepositoryMockRecorder) SetPaused(ctx, paused any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetPaused", reflect.TypeOf((*MockParamsRepository)(nil).SetPaused), ctx, paused)
}

// MockOutboxRepository is a mock of OutboxRepository interface.
type MockOutboxRepository struct {
	ctrl     *gomock.Controller
	recorder *MockOutboxRepositoryMockRecorder
	isgomock struct{}
}

// MockOutboxRepositoryMockRecorder is the mock recorder for MockOutboxRepository.
type MockOutboxRepositoryMockRecorder struct {
	mock *MockOutboxRepository
}

// NewMockOutboxRepository creates a new mock instance.
func NewMockOutboxRepository(ctrl *gomock.Controller) *MockOutboxRepository {
	mock := &MockOutboxRepository{ctrl: ctrl}
	mock.recorder = &MockOutboxRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockOutboxRepository) EXPECT() *MockOutboxRepositoryMockRecorder {
	return m.recorder
}

// Append mocks base method.
func (m *MockOutboxRepository) Append(ctx context.Context, event *domain.Event) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Append", ctx, event)
	ret0, _ := ret[0].(error)
	return ret0
}

// Append indicates an expected call of Append.
func (mr *MockOutboxRepositoryMockRecorder) Append(ctx, event any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Append", reflect.TypeOf((*MockOutboxRepository)(nil).Append), ctx, event)
}

// GetUnpublished mocks base method.
func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.Event, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetUnpublished", ctx, limit)
	ret0, _ := ret[0].([]*domain.Event)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetUnpublished indicates an expected call of GetUnpublished.
func (mr *MockOutboxRepositoryMockRecorder) GetUnpublished(ctx, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetUnpublished", reflect.TypeOf((*MockOutboxRepository)(nil).GetUnpublished), ctx, limit)
}

// ListAfter mocks base method.
func (m *MockOutboxRepository) ListAfter(ctx context.Context, afterSeq uint64, limit int) ([]*domain.Event, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListAfter", ctx, afterSeq, limit)
	ret0, _ := ret[0].([]*domain.Event)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListAfter indicates an expected call of ListAfter.
func (mr *MockOutboxRepositoryMockRecorder) ListAfter(ctx, afterSeq, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListAfter", reflect.TypeOf((*MockOutboxRepository)(nil).ListAfter), ctx, afterSeq, limit)
}

// MarkPublished mocks base method.
func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkPublished", ctx, id, publishedAt)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkPublished indicates an expected call of MarkPublished.
func (mr *MockOutboxRepositoryMockRecorder) MarkPublished(ctx, id, publishedAt any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkPublished", reflect.TypeOf((*MockOutboxRepository)(nil).MarkPublished), ctx, id, publishedAt)
}

// MockIDGenerator is a mock of IDGenerator interface.
type MockIDGenerator struct {
	ctrl     *gomock.Controller
	recorder *MockIDGeneratorMockRecorder
	isgomock struct{}
}

// MockIDGeneratorMockRecorder is the mock recorder for MockIDGenerator.
type MockIDGeneratorMockRecorder struct {
	mock *MockIDGenerator
}

// NewMockIDGenerator creates a new mock instance.
func NewMockIDGenerator(ctrl *gomock.Controller) *MockIDGenerator {
	mock := &MockIDGenerator{ctrl: ctrl}
	mock.recorder = &MockIDGeneratorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockIDGenerator) EXPECT() *MockIDGeneratorMockRecorder {
	return m.recorder
}

// Generate mocks base method.
func (m *MockIDGenerator) Generate() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Generate")
	ret0, _ := ret[0].(string)
	return ret0
}

// Generate indicates an expected call of Generate.
func (mr *MockIDGeneratorMockRecorder) Generate() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Generate", reflect.TypeOf((*MockIDGenerator)(nil).Generate))
}

// MockClock is a mock of Clock interface.
type MockClock struct {
	ctrl     *gomock.Controller
	recorder *MockClockMockRecorder
	isgomock struct{}
}

// MockClockMockRecorder is the mock recorder for MockClock.
type MockClockMockRecorder struct {
	mock *MockClock
}

// NewMockClock creates a new mock instance.
func NewMockClock(ctrl *gomock.Controller) *MockClock {
	mock := &MockClock{ctrl: ctrl}
	mock.recorder = &MockClockMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockClock) EXPECT() *MockClockMockRecorder {
	return m.recorder
}

// Now mocks base method.
func (m *MockClock) Now() time.Time {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Now")
	ret0, _ := ret[0].(time.Time)
	return ret0
}

// Now indicates an expected call of Now.
func (mr *MockClockMockRecorder) Now() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Now", reflect.TypeOf((*MockClock)(nil).Now))
}

// MockIdempotencyStore is a mock of IdempotencyStore interface.
type MockIdempotencyStore struct {
	ctrl     *gomock.Controller
	recorder *MockIdempotencyStoreMockRecorder
	isgomock struct{}
}

// MockIdempotencyStoreMockRecorder is the mock recorder for MockIdempotencyStore.
type MockIdempotencyStoreMockRecorder struct {
	mock *MockIdempotencyStore
}

// NewMockIdempotencyStore creates a new mock instance.
func NewMockIdempotencyStore(ctrl *gomock.Controller) *MockIdempotencyStore {
	mock := &MockIdempotencyStore{ctrl: ctrl}
	mock.recorder = &MockIdempotencyStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockIdempotencyStore) EXPECT() *MockIdempotencyStoreMockRecorder {
	return m.recorder
}

// CheckAndSet mocks base method.
func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CheckAndSet", ctx, key, response, ttl)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].([]byte)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// CheckAndSet indicates an expected call of CheckAndSet.
func (mr *MockIdempotencyStoreMockRecorder) CheckAndSet(ctx, key, response, ttl any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CheckAndSet", reflect.TypeOf((*MockIdempotencyStore)(nil).CheckAndSet), ctx, key, response, ttl)
}

// Update mocks base method.
func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, key, response, ttl)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockIdempotencyStoreMockRecorder) Update(ctx, key, response, ttl any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockIdempotencyStore)(nil).Update), ctx, key, response, ttl)
}
