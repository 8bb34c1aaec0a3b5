package query

import (
	"context"
	"fmt"

	"github.com/fernholt/storefront/internal/inventory/domain"
)

// ListHistoryQuery pages through a product's adjustment log, newest first.
type ListHistoryQuery struct {
	ProductID uint
	Limit     int
	Offset    int
}

// ListHistoryHandler handles adjustment history queries
type ListHistoryHandler struct {
	ledger domain.LedgerRepository
}

// NewListHistoryHandler creates a new history handler
func NewListHistoryHandler(ledger domain.LedgerRepository) *ListHistoryHandler {
	return &ListHistoryHandler{ledger: ledger}
}

// Handle executes the history query
func (h *ListHistoryHandler) Handle(ctx context.Context, q ListHistoryQuery) ([]domain.AdjustmentRecord, error) {
	if q.ProductID == 0 {
		return nil, fmt.Errorf("product_id is required")
	}
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 50
	}
	return h.ledger.ListAdjustments(ctx, q.ProductID, q.Limit, q.Offset)
}
