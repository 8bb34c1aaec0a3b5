package command

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fernholt/storefront/internal/inventory/domain"
)

// Mock ledger repository backed by a mutex-guarded map. It mirrors the
// store contract: one atomic read-compute-write per adjustment plus an
// append-only record list.
type memLedger struct {
	mu      sync.Mutex
	levels  map[uint]*domain.StockLevel
	records []domain.AdjustmentRecord
	nextID  int
}

func newMemLedger() *memLedger {
	return &memLedger{levels: make(map[uint]*domain.StockLevel)}
}

func (m *memLedger) seed(productID uint, quantity, threshold int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[productID] = &domain.StockLevel{
		ProductID:         productID,
		Quantity:          quantity,
		LowStockThreshold: threshold,
		Version:           1,
	}
}

func (m *memLedger) ApplyAdjustment(ctx context.Context, productID uint, kind domain.AdjustmentKind, magnitude int, reason, actorID string) (*domain.StockLevel, *domain.AdjustmentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	level, ok := m.levels[productID]
	if !ok {
		if kind != domain.KindInitialStock {
			return nil, nil, domain.ErrNotFound
		}
		if magnitude < 0 {
			return nil, nil, domain.ErrInvalidMagnitude
		}
		level = &domain.StockLevel{ProductID: productID, Quantity: magnitude, LowStockThreshold: 5, Version: 1}
		m.levels[productID] = level
		record := m.append(productID, kind, magnitude, 0, magnitude, magnitude, reason, actorID)
		snapshot := *level
		return &snapshot, record, nil
	}

	if kind == domain.KindInitialStock {
		return nil, nil, domain.ErrAlreadyExists
	}
	if level.ReconcileRequired {
		return nil, nil, domain.ErrReconcileRequired
	}

	change, err := domain.ComputeAdjustment(level.Quantity, kind, magnitude)
	if err != nil {
		return nil, nil, err
	}

	record := m.append(productID, kind, change.Delta, level.Quantity, change.NewQuantity, magnitude, reason, actorID)
	level.Quantity = change.NewQuantity
	level.Version++

	snapshot := *level
	return &snapshot, record, nil
}

func (m *memLedger) append(productID uint, kind domain.AdjustmentKind, delta, prev, next, requested int, reason, actorID string) *domain.AdjustmentRecord {
	m.nextID++
	record := domain.AdjustmentRecord{
		ID:                 string(rune('a' + m.nextID%26)),
		ProductID:          productID,
		Kind:               kind,
		Delta:              delta,
		PreviousQuantity:   prev,
		NewQuantity:        next,
		RequestedMagnitude: requested,
		Reason:             reason,
		ActorID:            actorID,
	}
	m.records = append(m.records, record)
	return &record
}

func (m *memLedger) FindByProductID(ctx context.Context, productID uint) (*domain.StockLevel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	level, ok := m.levels[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	snapshot := *level
	return &snapshot, nil
}

func (m *memLedger) ListLowStock(ctx context.Context) ([]domain.StockLevel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StockLevel
	for _, level := range m.levels {
		if level.IsLowStock() {
			out = append(out, *level)
		}
	}
	return out, nil
}

func (m *memLedger) ListOutOfStock(ctx context.Context) ([]domain.StockLevel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StockLevel
	for _, level := range m.levels {
		if level.IsOutOfStock() {
			out = append(out, *level)
		}
	}
	return out, nil
}

func (m *memLedger) ListAdjustments(ctx context.Context, productID uint, limit, offset int) ([]domain.AdjustmentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AdjustmentRecord
	for _, record := range m.records {
		if record.ProductID == productID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (m *memLedger) VerifyLedger(ctx context.Context, productID uint) (*domain.LedgerVerification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	level, ok := m.levels[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	sum, count := 0, 0
	for _, record := range m.records {
		if record.ProductID == productID {
			sum += record.Delta
			count++
		}
	}
	return &domain.LedgerVerification{
		ProductID:        productID,
		StoredQuantity:   level.Quantity,
		ReplayedQuantity: sum,
		RecordCount:      count,
		Consistent:       sum == level.Quantity,
	}, nil
}

func (m *memLedger) MarkReconcileRequired(ctx context.Context, productID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	level, ok := m.levels[productID]
	if !ok {
		return domain.ErrNotFound
	}
	level.ReconcileRequired = true
	return nil
}

func TestAdjustStock_Restock(t *testing.T) {
	ledger := newMemLedger()
	ledger.seed(1, 4, 5)
	handler := NewAdjustStockHandler(ledger)

	result, err := handler.Handle(context.Background(), AdjustStockCommand{
		ProductID: 1, Kind: domain.KindRestock, Magnitude: 10, ActorID: "admin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Level.Quantity != 14 {
		t.Errorf("expected quantity 14, got %d", result.Level.Quantity)
	}
	if result.Record.Delta != 10 {
		t.Errorf("expected delta 10, got %d", result.Record.Delta)
	}
}

func TestAdjustStock_SaleClampedAtZero(t *testing.T) {
	ledger := newMemLedger()
	ledger.seed(1, 4, 5)
	handler := NewAdjustStockHandler(ledger)

	result, err := handler.Handle(context.Background(), AdjustStockCommand{
		ProductID: 1, Kind: domain.KindSale, Magnitude: 10, ActorID: "customer-9",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Level.Quantity != 0 {
		t.Errorf("expected quantity clamped at 0, got %d", result.Level.Quantity)
	}
	if result.Record.Delta != -4 {
		t.Errorf("expected recorded delta -4, got %d", result.Record.Delta)
	}
	if got := result.Record.Unfulfilled(); got != 6 {
		t.Errorf("expected 6 unfulfilled units, got %d", got)
	}
}

func TestAdjustStock_UnknownProduct(t *testing.T) {
	handler := NewAdjustStockHandler(newMemLedger())

	_, err := handler.Handle(context.Background(), AdjustStockCommand{
		ProductID: 99, Kind: domain.KindSale, Magnitude: 1, ActorID: "customer",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAdjustStock_InitialStock(t *testing.T) {
	ledger := newMemLedger()
	handler := NewAdjustStockHandler(ledger)

	result, err := handler.Handle(context.Background(), AdjustStockCommand{
		ProductID: 7, Kind: domain.KindInitialStock, Magnitude: 25, ActorID: "admin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Level.Quantity != 25 {
		t.Errorf("expected quantity 25, got %d", result.Level.Quantity)
	}

	// A second INITIAL_STOCK on the same product must fail.
	_, err = handler.Handle(context.Background(), AdjustStockCommand{
		ProductID: 7, Kind: domain.KindInitialStock, Magnitude: 5, ActorID: "admin",
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAdjustStock_InvalidInput(t *testing.T) {
	ledger := newMemLedger()
	ledger.seed(1, 4, 5)
	handler := NewAdjustStockHandler(ledger)

	_, err := handler.Handle(context.Background(), AdjustStockCommand{
		ProductID: 1, Kind: domain.KindRestock, Magnitude: -3, ActorID: "admin",
	})
	if !errors.Is(err, domain.ErrInvalidMagnitude) {
		t.Errorf("expected ErrInvalidMagnitude, got %v", err)
	}

	_, err = handler.Handle(context.Background(), AdjustStockCommand{
		ProductID: 1, Kind: domain.AdjustmentKind("SHRINK"), Magnitude: 1, ActorID: "admin",
	})
	if !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestAdjustStock_ReconcileRequiredHaltsWrites(t *testing.T) {
	ledger := newMemLedger()
	ledger.seed(1, 4, 5)
	if err := ledger.MarkReconcileRequired(context.Background(), 1); err != nil {
		t.Fatalf("failed to flag product: %v", err)
	}
	handler := NewAdjustStockHandler(ledger)

	_, err := handler.Handle(context.Background(), AdjustStockCommand{
		ProductID: 1, Kind: domain.KindRestock, Magnitude: 1, ActorID: "admin",
	})
	if !errors.Is(err, domain.ErrReconcileRequired) {
		t.Errorf("expected ErrReconcileRequired, got %v", err)
	}
}

func TestAdjustStock_ConcurrentSalesNeverNegative(t *testing.T) {
	initialStock := 20
	totalRequests := 50

	ledger := newMemLedger()
	ledger.seed(1, initialStock, 5)
	handler := NewAdjustStockHandler(ledger)

	var applied atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := handler.Handle(context.Background(), AdjustStockCommand{
				ProductID: 1, Kind: domain.KindSale, Magnitude: 1, ActorID: "customer",
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			applied.Add(int32(-result.Record.Delta))
			if result.Level.Quantity < 0 {
				t.Errorf("observed negative quantity %d", result.Level.Quantity)
			}
		}()
	}
	wg.Wait()

	if applied.Load() != int32(initialStock) {
		t.Errorf("expected exactly %d units applied, got %d", initialStock, applied.Load())
	}

	level, err := ledger.FindByProductID(context.Background(), 1)
	if err != nil {
		t.Fatalf("failed to read level: %v", err)
	}
	if level.Quantity != 0 {
		t.Errorf("expected final quantity 0, got %d", level.Quantity)
	}
}

func TestAdjustStock_LedgerReplayReproducesLevel(t *testing.T) {
	ledger := newMemLedger()
	handler := NewAdjustStockHandler(ledger)
	ctx := context.Background()

	if _, err := handler.Handle(ctx, AdjustStockCommand{
		ProductID: 3, Kind: domain.KindInitialStock, Magnitude: 10, ActorID: "admin",
	}); err != nil {
		t.Fatalf("initial stock failed: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	kinds := []domain.AdjustmentKind{
		domain.KindRestock, domain.KindSale, domain.KindReturn, domain.KindAdjustment,
	}
	for i := 0; i < 200; i++ {
		kind := kinds[rng.Intn(len(kinds))]
		if _, err := handler.Handle(ctx, AdjustStockCommand{
			ProductID: 3, Kind: kind, Magnitude: rng.Intn(15), ActorID: "admin",
		}); err != nil {
			t.Fatalf("adjustment %d (%s) failed: %v", i, kind, err)
		}
	}

	verification, err := ledger.VerifyLedger(ctx, 3)
	if err != nil {
		t.Fatalf("verification failed: %v", err)
	}
	if !verification.Consistent {
		t.Errorf("ledger replay %d does not match stored level %d",
			verification.ReplayedQuantity, verification.StoredQuantity)
	}
}
