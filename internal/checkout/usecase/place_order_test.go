package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	catalog "github.com/fernholt/storefront/internal/catalog/domain"
	"github.com/fernholt/storefront/internal/checkout/domain"
	inventory "github.com/fernholt/storefront/internal/inventory/domain"
	"github.com/fernholt/storefront/internal/pricing/engine"
	"github.com/fernholt/storefront/internal/pricing/resolver"
	"github.com/fernholt/storefront/internal/shipping"
	"github.com/fernholt/storefront/pkg/metrics"
	"github.com/fernholt/storefront/pkg/money"
)

// Mock ledger: mutex-guarded levels plus an append-only record list.
type mockLedger struct {
	mu      sync.Mutex
	levels  map[uint]*inventory.StockLevel
	records []inventory.AdjustmentRecord
}

func newMockLedger(stock map[uint]int) *mockLedger {
	levels := make(map[uint]*inventory.StockLevel, len(stock))
	for id, qty := range stock {
		levels[id] = &inventory.StockLevel{ProductID: id, Quantity: qty, Version: 1}
	}
	return &mockLedger{levels: levels}
}

func (m *mockLedger) ApplyAdjustment(ctx context.Context, productID uint, kind inventory.AdjustmentKind, magnitude int, reason, actorID string) (*inventory.StockLevel, *inventory.AdjustmentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	level, ok := m.levels[productID]
	if !ok {
		return nil, nil, inventory.ErrNotFound
	}

	change, err := inventory.ComputeAdjustment(level.Quantity, kind, magnitude)
	if err != nil {
		return nil, nil, err
	}

	record := inventory.AdjustmentRecord{
		ProductID:          productID,
		Kind:               kind,
		Delta:              change.Delta,
		PreviousQuantity:   level.Quantity,
		NewQuantity:        change.NewQuantity,
		RequestedMagnitude: magnitude,
		Reason:             reason,
		ActorID:            actorID,
	}
	m.records = append(m.records, record)
	level.Quantity = change.NewQuantity
	level.Version++

	snapshot := *level
	return &snapshot, &record, nil
}

func (m *mockLedger) quantity(productID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if level, ok := m.levels[productID]; ok {
		return level.Quantity
	}
	return -1
}

func (m *mockLedger) FindByProductID(ctx context.Context, productID uint) (*inventory.StockLevel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	level, ok := m.levels[productID]
	if !ok {
		return nil, inventory.ErrNotFound
	}
	snapshot := *level
	return &snapshot, nil
}

func (m *mockLedger) ListLowStock(ctx context.Context) ([]inventory.StockLevel, error)   { return nil, nil }
func (m *mockLedger) ListOutOfStock(ctx context.Context) ([]inventory.StockLevel, error) { return nil, nil }
func (m *mockLedger) ListAdjustments(ctx context.Context, productID uint, limit, offset int) ([]inventory.AdjustmentRecord, error) {
	return nil, nil
}
func (m *mockLedger) VerifyLedger(ctx context.Context, productID uint) (*inventory.LedgerVerification, error) {
	return nil, nil
}
func (m *mockLedger) MarkReconcileRequired(ctx context.Context, productID uint) error { return nil }

// Mock catalog price source.
type mockPrices map[uint]money.Cents

func (m mockPrices) UnitPrice(ctx context.Context, productID uint) (money.Cents, error) {
	price, ok := m[productID]
	if !ok {
		return 0, catalog.ErrProductNotFound
	}
	return price, nil
}

// Mock order repository.
type mockOrders struct {
	mu      sync.Mutex
	created []*domain.Order
	failOn  error
}

func (m *mockOrders) Create(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != nil {
		return m.failOn
	}
	m.created = append(m.created, order)
	return nil
}

func (m *mockOrders) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return nil, errors.New("not implemented")
}

func (m *mockOrders) FindByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Order, error) {
	return nil, errors.New("not implemented")
}

func newHandler(ledger inventory.LedgerRepository, prices mockPrices, orders domain.OrderRepository, m *metrics.StorefrontMetrics) *PlaceOrderHandler {
	return NewPlaceOrderHandler(
		ledger,
		prices,
		resolver.NewResolver(resolver.DefaultRegistry()),
		engine.New(engine.Config{FreeShippingThreshold: 7500, TaxRateBasisPoints: 875}),
		shipping.NewFallbackRateSource(nil, shipping.DefaultRateTable()),
		orders,
		m,
	)
}

func TestPlaceOrder_Success(t *testing.T) {
	ledger := newMockLedger(map[uint]int{1: 10, 2: 5})
	prices := mockPrices{1: 2999, 2: 2499}
	orders := &mockOrders{}
	handler := newHandler(ledger, prices, orders, nil)

	order, err := handler.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:  "customer-1",
		Destination: shipping.Destination{Country: "CA"},
		Items: []OrderLineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Subtotal != 8497 {
		t.Errorf("expected subtotal 8497, got %d", order.Subtotal)
	}
	if order.ShippingCost != 0 {
		t.Errorf("expected free shipping above threshold, got %d", order.ShippingCost)
	}
	if order.Status != domain.StatusConfirmed {
		t.Errorf("expected confirmed order, got %s", order.Status)
	}
	if len(order.Items) != 2 {
		t.Errorf("expected 2 order items, got %d", len(order.Items))
	}

	if got := ledger.quantity(1); got != 8 {
		t.Errorf("expected product 1 stock 8, got %d", got)
	}
	if got := ledger.quantity(2); got != 4 {
		t.Errorf("expected product 2 stock 4, got %d", got)
	}
	if len(orders.created) != 1 {
		t.Errorf("expected 1 persisted order, got %d", len(orders.created))
	}
}

func TestPlaceOrder_DiscountAppliedServerSide(t *testing.T) {
	ledger := newMockLedger(map[uint]int{1: 10, 2: 5})
	prices := mockPrices{1: 2999, 2: 2499}
	orders := &mockOrders{}
	handler := newHandler(ledger, prices, orders, nil)

	order, err := handler.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:   "customer-1",
		DiscountCode: "save15",
		Destination:  shipping.Destination{Country: "CA"},
		Items: []OrderLineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.DiscountAmount != 1275 {
		t.Errorf("expected discount 1275, got %d", order.DiscountAmount)
	}
	if order.DiscountCode != "SAVE15" {
		t.Errorf("expected normalized code recorded, got %q", order.DiscountCode)
	}
}

func TestPlaceOrder_UnknownProductAbortsWhole(t *testing.T) {
	ledger := newMockLedger(map[uint]int{1: 10})
	prices := mockPrices{1: 2999, 99: 999} // product 99 priced but has no stock level
	orders := &mockOrders{}
	handler := newHandler(ledger, prices, orders, nil)

	_, err := handler.Handle(context.Background(), PlaceOrderCommand{
		CustomerID: "customer-1",
		Items: []OrderLineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 99, Quantity: 1},
		},
	})
	if !errors.Is(err, inventory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The first line's decrement must have been compensated.
	if got := ledger.quantity(1); got != 10 {
		t.Errorf("expected product 1 stock restored to 10, got %d", got)
	}
	if len(orders.created) != 0 {
		t.Errorf("expected no persisted order, got %d", len(orders.created))
	}
}

func TestPlaceOrder_DeletedProductFailsPricing(t *testing.T) {
	ledger := newMockLedger(map[uint]int{1: 10})
	prices := mockPrices{1: 2999}
	orders := &mockOrders{}
	handler := newHandler(ledger, prices, orders, nil)

	_, err := handler.Handle(context.Background(), PlaceOrderCommand{
		CustomerID: "customer-1",
		Items: []OrderLineRequest{
			{ProductID: 1, Quantity: 1},
			{ProductID: 404, Quantity: 1},
		},
	})
	if !errors.Is(err, catalog.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	// Pricing happens before any decrement, so stock is untouched.
	if got := ledger.quantity(1); got != 10 {
		t.Errorf("expected product 1 stock untouched at 10, got %d", got)
	}
}

func TestPlaceOrder_InsufficientStockCompensates(t *testing.T) {
	ledger := newMockLedger(map[uint]int{1: 10, 2: 3})
	prices := mockPrices{1: 2999, 2: 2499}
	orders := &mockOrders{}
	handler := newHandler(ledger, prices, orders, nil)

	_, err := handler.Handle(context.Background(), PlaceOrderCommand{
		CustomerID: "customer-1",
		Items: []OrderLineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 5}, // only 3 on hand
		},
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Both the full first line and the partially clamped second line
	// must be restored.
	if got := ledger.quantity(1); got != 10 {
		t.Errorf("expected product 1 stock restored to 10, got %d", got)
	}
	if got := ledger.quantity(2); got != 3 {
		t.Errorf("expected product 2 stock restored to 3, got %d", got)
	}
	if len(orders.created) != 0 {
		t.Errorf("expected no persisted order, got %d", len(orders.created))
	}
}

func TestPlaceOrder_PersistFailureCompensates(t *testing.T) {
	ledger := newMockLedger(map[uint]int{1: 10})
	prices := mockPrices{1: 2999}
	orders := &mockOrders{failOn: errors.New("db down")}
	handler := newHandler(ledger, prices, orders, nil)

	_, err := handler.Handle(context.Background(), PlaceOrderCommand{
		CustomerID: "customer-1",
		Items:      []OrderLineRequest{{ProductID: 1, Quantity: 4}},
	})
	if err == nil {
		t.Fatal("expected error from order persistence")
	}

	if got := ledger.quantity(1); got != 10 {
		t.Errorf("expected stock restored to 10 after failed persist, got %d", got)
	}
}

// deadlineLedger surfaces the context error on every call once the
// context is done, like the gorm repository does.
type deadlineLedger struct {
	*mockLedger
}

func (l *deadlineLedger) ApplyAdjustment(ctx context.Context, productID uint, kind inventory.AdjustmentKind, magnitude int, reason, actorID string) (*inventory.StockLevel, *inventory.AdjustmentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return l.mockLedger.ApplyAdjustment(ctx, productID, kind, magnitude, reason, actorID)
}

// cancellingOrders cancels the request context before failing, simulating
// a checkout that hits its deadline mid-transaction.
type cancellingOrders struct {
	mockOrders
	cancel context.CancelFunc
}

func (m *cancellingOrders) Create(ctx context.Context, order *domain.Order) error {
	m.cancel()
	return context.DeadlineExceeded
}

func TestPlaceOrder_CompensatesAfterRequestCancelled(t *testing.T) {
	base := newMockLedger(map[uint]int{1: 10})
	ledger := &deadlineLedger{mockLedger: base}
	prices := mockPrices{1: 2999}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	orders := &cancellingOrders{cancel: cancel}

	m := &metrics.StorefrontMetrics{
		CompensationsRuns: prometheus.NewCounter(prometheus.CounterOpts{Name: "compensations_total"}),
	}
	handler := newHandler(ledger, prices, orders, m)

	_, err := handler.Handle(ctx, PlaceOrderCommand{
		CustomerID: "customer-1",
		Items:      []OrderLineRequest{{ProductID: 1, Quantity: 3}},
	})
	if err == nil {
		t.Fatal("expected error from failed persist")
	}

	// The RETURN must land even though the request context is dead.
	if got := base.quantity(1); got != 10 {
		t.Errorf("expected stock restored to 10 after cancelled checkout, got %d", got)
	}
	if got := testutil.ToFloat64(m.CompensationsRuns); got != 1 {
		t.Errorf("expected 1 compensation run recorded, got %v", got)
	}
}

func TestPlaceOrder_ValidatesInput(t *testing.T) {
	handler := newHandler(newMockLedger(nil), mockPrices{}, &mockOrders{}, nil)

	if _, err := handler.Handle(context.Background(), PlaceOrderCommand{CustomerID: "c"}); !errors.Is(err, domain.ErrEmptyOrder) {
		t.Errorf("expected ErrEmptyOrder, got %v", err)
	}

	_, err := handler.Handle(context.Background(), PlaceOrderCommand{
		CustomerID: "c",
		Items:      []OrderLineRequest{{ProductID: 1, Quantity: 0}},
	})
	if !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
}
