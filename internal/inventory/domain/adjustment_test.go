package domain

import (
	"errors"
	"testing"
)

func TestComputeAdjustment_Restock(t *testing.T) {
	change, err := ComputeAdjustment(4, KindRestock, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change.NewQuantity != 14 || change.Delta != 10 {
		t.Errorf("got new=%d delta=%d, want new=14 delta=10", change.NewQuantity, change.Delta)
	}
}

func TestComputeAdjustment_Return(t *testing.T) {
	change, err := ComputeAdjustment(0, KindReturn, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change.NewQuantity != 2 || change.Delta != 2 {
		t.Errorf("got new=%d delta=%d, want new=2 delta=2", change.NewQuantity, change.Delta)
	}
}

func TestComputeAdjustment_SaleClamped(t *testing.T) {
	// Sale of 10 against 4 on hand clamps at zero and records the actual
	// applied change of -4, with 6 unfulfillable units.
	change, err := ComputeAdjustment(4, KindSale, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change.NewQuantity != 0 {
		t.Errorf("expected quantity clamped at 0, got %d", change.NewQuantity)
	}
	if change.Delta != -4 {
		t.Errorf("expected delta -4 (actual applied), got %d", change.Delta)
	}
	if change.Unfulfilled != 6 {
		t.Errorf("expected 6 unfulfilled units, got %d", change.Unfulfilled)
	}
}

func TestComputeAdjustment_SaleExact(t *testing.T) {
	change, err := ComputeAdjustment(10, KindSale, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change.NewQuantity != 7 || change.Delta != -3 || change.Unfulfilled != 0 {
		t.Errorf("got %+v, want new=7 delta=-3 unfulfilled=0", change)
	}
}

func TestComputeAdjustment_AbsoluteSet(t *testing.T) {
	change, err := ComputeAdjustment(12, KindAdjustment, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change.NewQuantity != 5 || change.Delta != -7 {
		t.Errorf("got new=%d delta=%d, want new=5 delta=-7", change.NewQuantity, change.Delta)
	}
}

func TestComputeAdjustment_NegativeMagnitude(t *testing.T) {
	_, err := ComputeAdjustment(5, KindRestock, -1)
	if !errors.Is(err, ErrInvalidMagnitude) {
		t.Errorf("expected ErrInvalidMagnitude, got %v", err)
	}
}

func TestComputeAdjustment_UnknownKind(t *testing.T) {
	_, err := ComputeAdjustment(5, AdjustmentKind("SHRINKAGE"), 1)
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestAdjustmentRecord_Unfulfilled(t *testing.T) {
	rec := AdjustmentRecord{Kind: KindSale, Delta: -4, RequestedMagnitude: 10}
	if got := rec.Unfulfilled(); got != 6 {
		t.Errorf("expected 6, got %d", got)
	}

	full := AdjustmentRecord{Kind: KindSale, Delta: -10, RequestedMagnitude: 10}
	if got := full.Unfulfilled(); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}

	restock := AdjustmentRecord{Kind: KindRestock, Delta: 5, RequestedMagnitude: 5}
	if got := restock.Unfulfilled(); got != 0 {
		t.Errorf("expected 0 for non-sale kinds, got %d", got)
	}
}

func TestStockLevelPredicates(t *testing.T) {
	low := StockLevel{Quantity: 3, LowStockThreshold: 5}
	if !low.IsLowStock() {
		t.Error("expected low stock")
	}
	if low.IsOutOfStock() {
		t.Error("did not expect out of stock")
	}

	out := StockLevel{Quantity: 0, LowStockThreshold: 5}
	if out.IsLowStock() {
		t.Error("zero quantity is out of stock, not low stock")
	}
	if !out.IsOutOfStock() {
		t.Error("expected out of stock")
	}
}
