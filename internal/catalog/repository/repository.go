package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fernholt/storefront/internal/catalog/domain"
	"github.com/fernholt/storefront/pkg/money"
)

// GormCatalogRepository reads catalog products from PostgreSQL.
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{})
}

// UnitPrice returns the catalog price for an active product.
func (r *GormCatalogRepository) UnitPrice(ctx context.Context, productID uint) (money.Cents, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", productID, true).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.ErrProductNotFound
	}
	if err != nil {
		return 0, err
	}
	return product.UnitPrice, nil
}

func (r *GormCatalogRepository) FindByID(ctx context.Context, productID uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
