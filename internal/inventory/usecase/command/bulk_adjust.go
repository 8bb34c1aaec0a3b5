package command

import (
	"context"

	"github.com/fernholt/storefront/pkg/logger"
)

// BulkAdjustCommand represents an administrative bulk import. Items are
// processed independently; a bad row never rolls back the others.
type BulkAdjustCommand struct {
	Items   []AdjustStockCommand
	ActorID string
}

// BulkItemOutcome is the per-row result of a bulk adjustment.
type BulkItemOutcome struct {
	ProductID   uint   `json:"product_id"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	NewQuantity int    `json:"new_quantity,omitempty"`
	Unfulfilled int    `json:"unfulfilled,omitempty"`
}

// BulkAdjustResult aggregates the per-row outcomes.
type BulkAdjustResult struct {
	Outcomes     []BulkItemOutcome `json:"outcomes"`
	SuccessCount int               `json:"success_count"`
	FailureCount int               `json:"failure_count"`
}

// BulkAdjustHandler handles bulk adjustment commands
type BulkAdjustHandler struct {
	adjust *AdjustStockHandler
}

// NewBulkAdjustHandler creates a new bulk adjust handler
func NewBulkAdjustHandler(adjust *AdjustStockHandler) *BulkAdjustHandler {
	return &BulkAdjustHandler{adjust: adjust}
}

// Handle processes every item and collects per-item outcomes.
func (h *BulkAdjustHandler) Handle(ctx context.Context, cmd BulkAdjustCommand) *BulkAdjustResult {
	result := &BulkAdjustResult{
		Outcomes: make([]BulkItemOutcome, 0, len(cmd.Items)),
	}

	for _, item := range cmd.Items {
		if item.ActorID == "" {
			item.ActorID = cmd.ActorID
		}

		applied, err := h.adjust.Handle(ctx, item)
		if err != nil {
			result.Outcomes = append(result.Outcomes, BulkItemOutcome{
				ProductID: item.ProductID,
				Success:   false,
				Error:     err.Error(),
			})
			result.FailureCount++
			continue
		}

		result.Outcomes = append(result.Outcomes, BulkItemOutcome{
			ProductID:   item.ProductID,
			Success:     true,
			NewQuantity: applied.Level.Quantity,
			Unfulfilled: applied.Record.Unfulfilled(),
		})
		result.SuccessCount++
	}

	logger.Info(ctx).
		Int("total", len(cmd.Items)).
		Int("succeeded", result.SuccessCount).
		Int("failed", result.FailureCount).
		Str("actor_id", cmd.ActorID).
		Msg("Bulk adjustment processed")

	return result
}
