package query

import (
	"context"

	"github.com/fernholt/storefront/internal/inventory/domain"
)

// ListLowStockHandler lists products at or below their low-stock
// threshold that still have units on hand.
type ListLowStockHandler struct {
	ledger domain.LedgerRepository
}

// NewListLowStockHandler creates a new low stock list handler
func NewListLowStockHandler(ledger domain.LedgerRepository) *ListLowStockHandler {
	return &ListLowStockHandler{ledger: ledger}
}

// Handle executes the low stock query
func (h *ListLowStockHandler) Handle(ctx context.Context) ([]domain.StockLevel, error) {
	return h.ledger.ListLowStock(ctx)
}
