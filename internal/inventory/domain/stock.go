package domain

import (
	"context"
	"time"
)

// StockLevel is the authoritative stock counter for one product. Quantity is
// mutated only through LedgerRepository.ApplyAdjustment, never directly.
type StockLevel struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	ProductID         uint      `json:"product_id" gorm:"uniqueIndex;not null"`
	Quantity          int       `json:"quantity" gorm:"not null;default:0"`
	LowStockThreshold int       `json:"low_stock_threshold" gorm:"not null;default:0"`
	Version           int64     `json:"version" gorm:"not null;default:0"`
	ReconcileRequired bool      `json:"reconcile_required" gorm:"not null;default:false"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (StockLevel) TableName() string {
	return "stock_levels"
}

// IsLowStock reports whether the level sits at or below its threshold
// while still having units on hand.
func (s *StockLevel) IsLowStock() bool {
	return s.Quantity > 0 && s.Quantity <= s.LowStockThreshold
}

// IsOutOfStock reports whether the product has no units on hand.
func (s *StockLevel) IsOutOfStock() bool {
	return s.Quantity == 0
}

// LedgerVerification is the outcome of replaying the adjustment log for
// one product against its stored level.
type LedgerVerification struct {
	ProductID        uint `json:"product_id"`
	StoredQuantity   int  `json:"stored_quantity"`
	ReplayedQuantity int  `json:"replayed_quantity"`
	RecordCount      int  `json:"record_count"`
	Consistent       bool `json:"consistent"`
}

// LedgerRepository defines the contract for the stock ledger store.
// ApplyAdjustment is the single mutation path: it reads the current level,
// computes the change, and commits the updated level together with the new
// adjustment record atomically. Concurrent writers to the same product are
// serialized with an optimistic version check and a bounded retry.
type LedgerRepository interface {
	ApplyAdjustment(ctx context.Context, productID uint, kind AdjustmentKind, magnitude int, reason, actorID string) (*StockLevel, *AdjustmentRecord, error)
	FindByProductID(ctx context.Context, productID uint) (*StockLevel, error)
	ListLowStock(ctx context.Context) ([]StockLevel, error)
	ListOutOfStock(ctx context.Context) ([]StockLevel, error)
	ListAdjustments(ctx context.Context, productID uint, limit, offset int) ([]AdjustmentRecord, error)
	VerifyLedger(ctx context.Context, productID uint) (*LedgerVerification, error)
	MarkReconcileRequired(ctx context.Context, productID uint) error
}
