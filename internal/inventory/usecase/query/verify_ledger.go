package query

import (
	"context"
	"fmt"

	"github.com/fernholt/storefront/internal/inventory/domain"
	"github.com/fernholt/storefront/pkg/logger"
)

// VerifyLedgerQuery triggers a replay verification for one product.
type VerifyLedgerQuery struct {
	ProductID uint
}

// VerifyLedgerHandler replays a product's adjustment log against its
// stored level. On a mismatch the product is flagged so that further
// writes halt pending manual reconciliation.
type VerifyLedgerHandler struct {
	ledger domain.LedgerRepository
}

// NewVerifyLedgerHandler creates a new ledger verification handler
func NewVerifyLedgerHandler(ledger domain.LedgerRepository) *VerifyLedgerHandler {
	return &VerifyLedgerHandler{ledger: ledger}
}

// Handle executes the verification
func (h *VerifyLedgerHandler) Handle(ctx context.Context, q VerifyLedgerQuery) (*domain.LedgerVerification, error) {
	if q.ProductID == 0 {
		return nil, fmt.Errorf("product_id is required")
	}

	verification, err := h.ledger.VerifyLedger(ctx, q.ProductID)
	if err != nil {
		return nil, err
	}

	if !verification.Consistent {
		logger.Error(ctx).
			Uint("product_id", q.ProductID).
			Int("stored", verification.StoredQuantity).
			Int("replayed", verification.ReplayedQuantity).
			Int("records", verification.RecordCount).
			Msg("Ledger replay mismatch, halting writes for product")

		if err := h.ledger.MarkReconcileRequired(ctx, q.ProductID); err != nil {
			return nil, fmt.Errorf("failed to flag product for reconciliation: %w", err)
		}
	}

	return verification, nil
}
