package domain

import (
	"context"
	"errors"
	"time"

	"github.com/fernholt/storefront/pkg/money"
)

var (
	// ErrEmptyOrder indicates a checkout with no lines.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrInvalidQuantity indicates a non-positive line quantity.
	ErrInvalidQuantity = errors.New("line quantity must be positive")
	// ErrInsufficientStock indicates a line could not be fulfilled in
	// full. Customer orders are all-or-nothing; partial decrements are
	// compensated before this error surfaces.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusRejected  OrderStatus = "REJECTED"
)

// Order is a persisted customer order with its computed pricing.
type Order struct {
	ID             string      `json:"id" gorm:"type:uuid;primaryKey"`
	CustomerID     string      `json:"customer_id" gorm:"size:128;index;not null"`
	Status         OrderStatus `json:"status" gorm:"size:20;not null"`
	Subtotal       money.Cents `json:"subtotal" gorm:"not null"`
	DiscountAmount money.Cents `json:"discount_amount" gorm:"not null"`
	ShippingCost   money.Cents `json:"shipping_cost" gorm:"not null"`
	TaxAmount      money.Cents `json:"tax_amount" gorm:"not null"`
	Total          money.Cents `json:"total" gorm:"not null"`
	DiscountCode   string      `json:"discount_code,omitempty" gorm:"size:64"`
	ShippingETA    string      `json:"shipping_eta,omitempty" gorm:"size:128"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one order line priced at checkout time.
type OrderItem struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	OrderID   string      `json:"order_id" gorm:"type:uuid;index;not null"`
	ProductID uint        `json:"product_id" gorm:"not null"`
	UnitPrice money.Cents `json:"unit_price" gorm:"not null"`
	Quantity  int         `json:"quantity" gorm:"not null"`
}

// TableName specifies the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderRepository defines the contract for order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	FindByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Order, error)
}
