package domain

import (
	"context"
	"errors"
	"time"

	"github.com/fernholt/storefront/pkg/money"
)

var ErrProductNotFound = errors.New("product not found")

// Product is the storefront catalog entry. The pricing engine trusts
// catalog prices, never client-supplied ones.
type Product struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	Name      string      `json:"name" gorm:"not null"`
	Slug      string      `json:"slug" gorm:"uniqueIndex"`
	UnitPrice money.Cents `json:"unit_price" gorm:"not null"`
	Active    bool        `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// PriceSource supplies unit prices and product existence to the pricing
// and checkout paths.
type PriceSource interface {
	UnitPrice(ctx context.Context, productID uint) (money.Cents, error)
}
