package kafka

import (
	"time"

	"github.com/fernholt/storefront/pkg/money"
)

// StockAdjustedEvent is emitted for every applied ledger adjustment.
type StockAdjustedEvent struct {
	EventID          string    `json:"event_id"`
	EventType        string    `json:"event_type"`
	ProductID        uint      `json:"product_id"`
	Kind             string    `json:"kind"`
	Delta            int       `json:"delta"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	Reason           string    `json:"reason"`
	ActorID          string    `json:"actor_id"`
	Timestamp        time.Time `json:"timestamp"`
}

// OrderPlacedEvent is emitted when a checkout completes.
type OrderPlacedEvent struct {
	EventID    string      `json:"event_id"`
	EventType  string      `json:"event_type"`
	OrderID    string      `json:"order_id"`
	CustomerID string      `json:"customer_id"`
	LineCount  int         `json:"line_count"`
	Subtotal   money.Cents `json:"subtotal"`
	Total      money.Cents `json:"total"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Event types
const (
	EventTypeStockAdjusted = "stock.adjusted"
	EventTypeOrderPlaced   = "order.placed"
)

// Kafka topics
const (
	TopicStockAdjusted = "stock-adjusted"
	TopicOrderPlaced   = "order-placed"
)
