package query

import (
	"context"

	"github.com/fernholt/storefront/internal/inventory/domain"
)

// ListOutOfStockHandler lists products with zero units on hand.
type ListOutOfStockHandler struct {
	ledger domain.LedgerRepository
}

// NewListOutOfStockHandler creates a new out of stock list handler
func NewListOutOfStockHandler(ledger domain.LedgerRepository) *ListOutOfStockHandler {
	return &ListOutOfStockHandler{ledger: ledger}
}

// Handle executes the out of stock query
func (h *ListOutOfStockHandler) Handle(ctx context.Context) ([]domain.StockLevel, error) {
	return h.ledger.ListOutOfStock(ctx)
}
