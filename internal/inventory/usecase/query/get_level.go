package query

import (
	"context"
	"fmt"

	"github.com/fernholt/storefront/internal/inventory/domain"
)

// GetLevelQuery represents the query for one product's stock level
type GetLevelQuery struct {
	ProductID uint
}

// GetLevelHandler handles get level queries
type GetLevelHandler struct {
	ledger domain.LedgerRepository
}

// NewGetLevelHandler creates a new get level handler
func NewGetLevelHandler(ledger domain.LedgerRepository) *GetLevelHandler {
	return &GetLevelHandler{ledger: ledger}
}

// Handle executes the get level query
func (h *GetLevelHandler) Handle(ctx context.Context, q GetLevelQuery) (*domain.StockLevel, error) {
	if q.ProductID == 0 {
		return nil, fmt.Errorf("product_id is required")
	}
	return h.ledger.FindByProductID(ctx, q.ProductID)
}
