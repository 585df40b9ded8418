package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propertyops/rentledger/internal/domain"
	"github.com/propertyops/rentledger/internal/usecase"
)

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, status domain.Status, updatedAt time.Time) error
	MarkVoidFunc         func(ctx context.Context, tx usecase.Transaction, id string, reason string, voidedAt time.Time) error
	ListByLeaseFunc      func(ctx context.Context, leaseID string, limit, offset int) ([]*domain.Transaction, error)
	ListByStatusFunc     func(ctx context.Context, status domain.Status, limit, offset int) ([]*domain.Transaction, error)
	ListOverdueFunc      func(ctx context.Context, asOf time.Time, limit, offset int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *txn
	m.transactions[txn.ID] = &copied
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok {
		copied := *txn
		return &copied, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, status domain.Status, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	txn.Balance = balance
	txn.Status = status
	txn.UpdatedAt = updatedAt
	return nil
}

func (m *MockTransactionRepository) MarkVoid(ctx context.Context, tx usecase.Transaction, id string, reason string, voidedAt time.Time) error {
	if m.MarkVoidFunc != nil {
		return m.MarkVoidFunc(ctx, tx, id, reason, voidedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	txn.Status = domain.StatusVoid
	txn.VoidReason = &reason
	txn.VoidedAt = &voidedAt
	txn.UpdatedAt = voidedAt
	return nil
}

func (m *MockTransactionRepository) ListByLease(ctx context.Context, leaseID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByLeaseFunc != nil {
		return m.ListByLeaseFunc(ctx, leaseID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.LeaseID == leaseID {
			copied := *txn
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) ListByStatus(ctx context.Context, status domain.Status, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.Status == status {
			copied := *txn
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) ListOverdue(ctx context.Context, asOf time.Time, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListOverdueFunc != nil {
		return m.ListOverdueFunc(ctx, asOf, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.IsOverdue(asOf) {
			copied := *txn
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Payment, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error)
	MarkReversedFunc      func(ctx context.Context, tx usecase.Transaction, id string, reversedAt time.Time) error
	ListByTransactionFunc func(ctx context.Context, transactionID string, limit, offset int) ([]*domain.Payment, error)
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *payment
	m.payments[payment.ID] = &copied
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockPaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockPaymentRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, id string, reversedAt time.Time) error {
	if m.MarkReversedFunc != nil {
		return m.MarkReversedFunc(ctx, tx, id, reversedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	p.Reversed = true
	p.ReversedAt = &reversedAt
	return nil
}

func (m *MockPaymentRepository) ListByTransaction(ctx context.Context, transactionID string, limit, offset int) ([]*domain.Payment, error) {
	if m.ListByTransactionFunc != nil {
		return m.ListByTransactionFunc(ctx, transactionID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Payment
	for _, p := range m.payments {
		if p.TransactionID == transactionID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MockLeaseRepository is a mock implementation of LeaseRepository.
type MockLeaseRepository struct {
	mu     sync.RWMutex
	leases map[string]*domain.Lease

	CreateFunc  func(ctx context.Context, lease *domain.Lease) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Lease, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.Lease, error)
}

func NewMockLeaseRepository() *MockLeaseRepository {
	return &MockLeaseRepository{
		leases: make(map[string]*domain.Lease),
	}
}

func (m *MockLeaseRepository) Create(ctx context.Context, lease *domain.Lease) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, lease)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *lease
	m.leases[lease.ID] = &copied
	return nil
}

func (m *MockLeaseRepository) GetByID(ctx context.Context, id string) (*domain.Lease, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.leases[id]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, domain.ErrLeaseNotFound
}

func (m *MockLeaseRepository) List(ctx context.Context, limit, offset int) ([]*domain.Lease, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Lease
	for _, l := range m.leases {
		copied := *l
		out = append(out, &copied)
	}
	return out, nil
}

// MockRecurringChargeRepository is a mock implementation of RecurringChargeRepository.
type MockRecurringChargeRepository struct {
	mu      sync.RWMutex
	charges map[string]*domain.RecurringCharge

	CreateFunc           func(ctx context.Context, charge *domain.RecurringCharge) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.RecurringCharge, error)
	ListByLeaseFunc      func(ctx context.Context, leaseID string) ([]*domain.RecurringCharge, error)
	ListDueForUpdateFunc func(ctx context.Context, tx usecase.Transaction, asOf time.Time, limit int) ([]*domain.RecurringCharge, error)
	UpdateNextRunFunc    func(ctx context.Context, tx usecase.Transaction, id string, nextRunAt, updatedAt time.Time) error
}

func NewMockRecurringChargeRepository() *MockRecurringChargeRepository {
	return &MockRecurringChargeRepository{
		charges: make(map[string]*domain.RecurringCharge),
	}
}

func (m *MockRecurringChargeRepository) Create(ctx context.Context, charge *domain.RecurringCharge) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, charge)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *charge
	m.charges[charge.ID] = &copied
	return nil
}

func (m *MockRecurringChargeRepository) GetByID(ctx context.Context, id string) (*domain.RecurringCharge, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.charges[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrChargeNotFound
}

func (m *MockRecurringChargeRepository) ListByLease(ctx context.Context, leaseID string) ([]*domain.RecurringCharge, error) {
	if m.ListByLeaseFunc != nil {
		return m.ListByLeaseFunc(ctx, leaseID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.RecurringCharge
	for _, c := range m.charges {
		if c.LeaseID == leaseID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockRecurringChargeRepository) ListDueForUpdate(ctx context.Context, tx usecase.Transaction, asOf time.Time, limit int) ([]*domain.RecurringCharge, error) {
	if m.ListDueForUpdateFunc != nil {
		return m.ListDueForUpdateFunc(ctx, tx, asOf, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.RecurringCharge
	for _, c := range m.charges {
		if c.Due(asOf) {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockRecurringChargeRepository) UpdateNextRun(ctx context.Context, tx usecase.Transaction, id string, nextRunAt, updatedAt time.Time) error {
	if m.UpdateNextRunFunc != nil {
		return m.UpdateNextRunFunc(ctx, tx, id, nextRunAt, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.charges[id]
	if !ok {
		return domain.ErrChargeNotFound
	}
	c.NextRunAt = nextRunAt
	c.UpdatedAt = updatedAt
	return nil
}

// MockStatementRepository is a mock implementation of StatementRepository.
type MockStatementRepository struct {
	TotalsForLeaseFunc func(ctx context.Context, leaseID string) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockStatementRepository() *MockStatementRepository {
	return &MockStatementRepository{}
}

func (m *MockStatementRepository) TotalsForLease(ctx context.Context, leaseID string) (decimal.Decimal, decimal.Decimal, error) {
	if m.TotalsForLeaseFunc != nil {
		return m.TotalsForLeaseFunc(ctx, leaseID)
	}
	return decimal.Zero, decimal.Zero, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *event
	m.events = append(m.events, &copied)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if e.PublishedAt == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns all recorded events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc   func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, l := range m.logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			out = append(out, l)
		}
	}
	return out, nil
}

// Logs returns all recorded audit logs.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...)
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

// MockClock is a Clock pinned to a fixed instant.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
