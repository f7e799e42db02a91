package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/origin"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) commands.Clock {
	return func() time.Time { return t }
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) CompleteDelivery(ctx context.Context, o *order.Order, expectedToken string) error {
	return m.Called(ctx, o, expectedToken).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ListByOwner(ctx context.Context, ownerID kernel.OwnerID) ([]*order.Order, error) {
	args := m.Called(ctx, ownerID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) GetAllWithExpiredTokens(ctx context.Context, now time.Time, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, now, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockOriginOrderRepository struct{ mock.Mock }

func (m *MockOriginOrderRepository) Add(ctx context.Context, o *origin.OriginOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOriginOrderRepository) Update(ctx context.Context, o *origin.OriginOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOriginOrderRepository) CompleteDelivery(ctx context.Context, o *origin.OriginOrder, expectedToken string) error {
	return m.Called(ctx, o, expectedToken).Error(0)
}

func (m *MockOriginOrderRepository) Get(ctx context.Context, id kernel.UUID) (*origin.OriginOrder, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*origin.OriginOrder)
	return o, args.Error(1)
}

func (m *MockOriginOrderRepository) ListByOwner(ctx context.Context, ownerID kernel.OwnerID) ([]*origin.OriginOrder, error) {
	args := m.Called(ctx, ownerID)
	orders, _ := args.Get(0).([]*origin.OriginOrder)
	return orders, args.Error(1)
}

type MockCartRepository struct{ mock.Mock }

func (m *MockCartRepository) Clear(ctx context.Context, ownerID kernel.OwnerID) error {
	return m.Called(ctx, ownerID).Error(0)
}

// MockUoW satisfies every narrowed unit of work interface used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) OriginOrderRepository() ports.OriginOrderRepository {
	return m.Called().Get(0).(ports.OriginOrderRepository)
}

func (m *MockUoW) CartRepository() ports.CartRepository {
	return m.Called().Get(0).(ports.CartRepository)
}

type orderUoWFactory struct{ uow *MockUoW }

func (f orderUoWFactory) Create() commands.OrderUoW { return f.uow }

type checkoutUoWFactory struct{ uow *MockUoW }

func (f checkoutUoWFactory) Create() commands.CheckoutUoW { return f.uow }

type originUoWFactory struct{ uow *MockUoW }

func (f originUoWFactory) Create() commands.OriginUoW { return f.uow }

type MockMetrics struct{ mock.Mock }

func (m *MockMetrics) TokenIssued(aggregateType string) {
	m.Called(aggregateType)
}

func (m *MockMetrics) VerificationAttempted(aggregateType, outcome string) {
	m.Called(aggregateType, outcome)
}

// budgetLimiter allows a fixed number of attempts per key and counts what it saw.
type budgetLimiter struct {
	mu     sync.Mutex
	budget int
	counts map[string]int
}

func newBudgetLimiter(budget int) *budgetLimiter {
	return &budgetLimiter{budget: budget, counts: make(map[string]int)}
}

func (l *budgetLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[key]++
	return l.counts[key] <= l.budget, nil
}

func (l *budgetLimiter) used(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[key]
}

type MockLimiter struct{ mock.Mock }

func (m *MockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func mustOwner(t *testing.T, id string) kernel.OwnerID {
	t.Helper()
	owner, err := kernel.NewOwnerID(id)
	require.NoError(t, err)
	return owner
}

func validItems(t *testing.T) []order.Item {
	t.Helper()
	ref, err := order.NewProductReference("margherita")
	require.NoError(t, err)
	item, err := order.NewItem(ref, 2)
	require.NoError(t, err)
	return []order.Item{item}
}

func validPricing(t *testing.T) order.Pricing {
	t.Helper()
	subtotal, err := kernel.NewMoney(2500)
	require.NoError(t, err)
	fee, err := kernel.NewMoney(299)
	require.NoError(t, err)
	pricing, err := order.NewPricing(subtotal, fee)
	require.NoError(t, err)
	return pricing
}

func validAddress(t *testing.T) order.Address {
	t.Helper()
	a, err := order.NewAddress("12 Baker Street", "London", "")
	require.NoError(t, err)
	return a
}

// orderIn builds an order owned by user-1 and advanced to status.
// Delivered and Cancelled are not supported here.
func orderIn(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), mustOwner(t, "user-1"), validItems(t), validPricing(t), validAddress(t), baseTime)
	require.NoError(t, err)
	for o.Status() != status {
		require.NoError(t, o.Advance(baseTime))
	}
	o.ClearDomainEvents()
	return o
}

func newOriginOrder(t *testing.T) *origin.OriginOrder {
	t.Helper()
	o, err := origin.NewOriginOrder(kernel.NewUUID(), mustOwner(t, "user-1"), validItems(t), validPricing(t), validAddress(t), baseTime)
	require.NoError(t, err)
	return o
}

func testSigner(t *testing.T) services.TokenSigner {
	t.Helper()
	signer, err := services.NewTokenSigner([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return signer
}

func testIssuer(t *testing.T) services.DeliveryTokenIssuer {
	t.Helper()
	issuer, err := services.NewDeliveryTokenIssuer(testSigner(t), services.DefaultTokenTTL)
	require.NoError(t, err)
	return issuer
}

func testVerifier(t *testing.T) services.DeliveryTokenVerifier {
	t.Helper()
	verifier, err := services.NewDeliveryTokenVerifier(testSigner(t), services.DefaultTokenTTL)
	require.NoError(t, err)
	return verifier
}
