package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fernholt/storefront/internal/checkout/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// GormOrderRepository persists orders and their items in PostgreSQL.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Order{}, &domain.OrderItem{})
}

// Create persists the order together with its items in one transaction.
func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	return orders, err
}
