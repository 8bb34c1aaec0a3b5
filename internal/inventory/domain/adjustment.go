package domain

import (
	"time"
)

// AdjustmentKind classifies a stock mutation. The sign of the applied delta
// is derived from the kind; callers always submit a non-negative magnitude.
type AdjustmentKind string

const (
	KindRestock      AdjustmentKind = "RESTOCK"
	KindSale         AdjustmentKind = "SALE"
	KindReturn       AdjustmentKind = "RETURN"
	KindAdjustment   AdjustmentKind = "ADJUSTMENT"
	KindInitialStock AdjustmentKind = "INITIAL_STOCK"
)

// Valid reports whether the kind is one of the known adjustment kinds.
func (k AdjustmentKind) Valid() bool {
	switch k {
	case KindRestock, KindSale, KindReturn, KindAdjustment, KindInitialStock:
		return true
	}
	return false
}

// AdjustmentRecord is one append-only ledger entry. Records are created
// once and never updated; replaying the deltas for a product from its
// initial record reproduces the current StockLevel quantity.
type AdjustmentRecord struct {
	ID                string         `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID         uint           `json:"product_id" gorm:"not null;index"`
	Kind              AdjustmentKind `json:"kind" gorm:"size:20;not null"`
	Delta             int            `json:"delta" gorm:"not null"`
	PreviousQuantity  int            `json:"previous_quantity" gorm:"not null"`
	NewQuantity       int            `json:"new_quantity" gorm:"not null"`
	RequestedMagnitude int           `json:"requested_magnitude" gorm:"not null"`
	Reason            string         `json:"reason,omitempty"`
	ActorID           string         `json:"actor_id" gorm:"size:128;index"`
	CreatedAt         time.Time      `json:"created_at"`
}

// TableName specifies the table name
func (AdjustmentRecord) TableName() string {
	return "stock_adjustments"
}

// Unfulfilled returns how many requested sale units could not be applied
// because the decrement was clamped at zero.
func (r *AdjustmentRecord) Unfulfilled() int {
	if r.Kind != KindSale {
		return 0
	}
	applied := -r.Delta
	if applied >= r.RequestedMagnitude {
		return 0
	}
	return r.RequestedMagnitude - applied
}

// Change is the computed outcome of applying one adjustment to a level.
type Change struct {
	NewQuantity int
	Delta       int
	Unfulfilled int
}

// ComputeAdjustment derives the new quantity and applied delta for an
// adjustment of the given kind. It is a pure function; the ledger store
// runs it inside its transaction against the freshly read level.
//
// SALE decrements are clamped so the quantity never goes negative: the
// recorded delta reflects the change actually applied, and Unfulfilled
// carries the remainder for reconciliation.
func ComputeAdjustment(previousQuantity int, kind AdjustmentKind, magnitude int) (Change, error) {
	if !kind.Valid() {
		return Change{}, ErrUnknownKind
	}
	if magnitude < 0 {
		return Change{}, ErrInvalidMagnitude
	}

	switch kind {
	case KindRestock, KindReturn:
		return Change{
			NewQuantity: previousQuantity + magnitude,
			Delta:       magnitude,
		}, nil
	case KindSale:
		applied := magnitude
		if applied > previousQuantity {
			applied = previousQuantity
		}
		return Change{
			NewQuantity: previousQuantity - applied,
			Delta:       -applied,
			Unfulfilled: magnitude - applied,
		}, nil
	case KindAdjustment, KindInitialStock:
		// Absolute set: the magnitude becomes the new quantity.
		return Change{
			NewQuantity: magnitude,
			Delta:       magnitude - previousQuantity,
		}, nil
	}

	return Change{}, ErrUnknownKind
}
