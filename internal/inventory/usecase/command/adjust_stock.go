package command

import (
	"context"
	"fmt"

	"github.com/fernholt/storefront/internal/inventory/domain"
	"github.com/fernholt/storefront/pkg/logger"
)

// AdjustStockCommand represents a single stock adjustment request. The
// magnitude is always non-negative; the sign of the applied change is
// derived from the kind.
type AdjustStockCommand struct {
	ProductID uint
	Kind      domain.AdjustmentKind
	Magnitude int
	Reason    string
	ActorID   string
}

// AdjustStockResult carries the committed level and ledger record.
type AdjustStockResult struct {
	Level  *domain.StockLevel
	Record *domain.AdjustmentRecord
}

// AdjustStockHandler handles stock adjustment commands
type AdjustStockHandler struct {
	ledger domain.LedgerRepository
}

// NewAdjustStockHandler creates a new adjust stock handler
func NewAdjustStockHandler(ledger domain.LedgerRepository) *AdjustStockHandler {
	return &AdjustStockHandler{ledger: ledger}
}

// Handle executes the adjustment against the ledger store.
func (h *AdjustStockHandler) Handle(ctx context.Context, cmd AdjustStockCommand) (*AdjustStockResult, error) {
	if cmd.ProductID == 0 {
		return nil, fmt.Errorf("product_id is required")
	}
	if !cmd.Kind.Valid() {
		return nil, domain.ErrUnknownKind
	}
	if cmd.Magnitude < 0 {
		return nil, domain.ErrInvalidMagnitude
	}

	level, record, err := h.ledger.ApplyAdjustment(ctx, cmd.ProductID, cmd.Kind, cmd.Magnitude, cmd.Reason, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	// A clamped sale is applied partially; the discrepancy between the
	// requested and recorded change is surfaced, never silently dropped.
	if unfulfilled := record.Unfulfilled(); unfulfilled > 0 {
		logger.Warn(ctx).
			Uint("product_id", cmd.ProductID).
			Int("requested", cmd.Magnitude).
			Int("applied", -record.Delta).
			Int("unfulfilled", unfulfilled).
			Str("actor_id", cmd.ActorID).
			Msg("Sale clamped at zero stock, units unfulfillable")
	}

	return &AdjustStockResult{Level: level, Record: record}, nil
}
