package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fernholt/storefront/internal/inventory/domain"
	"github.com/fernholt/storefront/pkg/logger"
	"github.com/fernholt/storefront/pkg/metrics"
)

// GormLedgerRepository implements the ledger store on PostgreSQL. Every
// mutation goes through ApplyAdjustment, which commits the updated level
// and the append-only adjustment record in one transaction guarded by an
// optimistic version check.
type GormLedgerRepository struct {
	db         *gorm.DB
	maxRetries int
	metrics    *metrics.StorefrontMetrics

	defaultLowStockThreshold int
}

func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{
		db:                       db,
		maxRetries:               3,
		defaultLowStockThreshold: 5,
	}
}

// WithDefaults overrides the retry budget and the low-stock threshold used
// for levels created via INITIAL_STOCK.
func (r *GormLedgerRepository) WithDefaults(maxRetries, lowStockThreshold int) *GormLedgerRepository {
	if maxRetries > 0 {
		r.maxRetries = maxRetries
	}
	if lowStockThreshold >= 0 {
		r.defaultLowStockThreshold = lowStockThreshold
	}
	return r
}

// WithMetrics records optimistic lock conflicts on the given collectors.
func (r *GormLedgerRepository) WithMetrics(m *metrics.StorefrontMetrics) *GormLedgerRepository {
	r.metrics = m
	return r
}

func (r *GormLedgerRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.StockLevel{}, &domain.AdjustmentRecord{})
}

// ApplyAdjustment applies one stock mutation atomically. Losers of a
// version race retry against the freshly read level up to the retry
// budget, then fail with ErrConflict.
func (r *GormLedgerRepository) ApplyAdjustment(ctx context.Context, productID uint, kind domain.AdjustmentKind, magnitude int, reason, actorID string) (*domain.StockLevel, *domain.AdjustmentRecord, error) {
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		level, record, err := r.tryApply(ctx, productID, kind, magnitude, reason, actorID)
		if err == nil {
			return level, record, nil
		}
		if !errors.Is(err, errVersionRace) {
			return nil, nil, err
		}

		if r.metrics != nil {
			r.metrics.VersionConflicts.Inc()
		}
		logger.Warn(ctx).
			Uint("product_id", productID).
			Str("kind", string(kind)).
			Int("attempt", attempt+1).
			Msg("Adjustment lost version race, retrying")
	}

	return nil, nil, domain.ErrConflict
}

// errVersionRace marks a lost optimistic lock round internally; it never
// leaves ApplyAdjustment.
var errVersionRace = errors.New("stock level version race")

func (r *GormLedgerRepository) tryApply(ctx context.Context, productID uint, kind domain.AdjustmentKind, magnitude int, reason, actorID string) (*domain.StockLevel, *domain.AdjustmentRecord, error) {
	var (
		level  domain.StockLevel
		record *domain.AdjustmentRecord
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("product_id = ?", productID).First(&level).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if kind != domain.KindInitialStock {
				return domain.ErrNotFound
			}
			created, createdRecord, cerr := r.createInitial(tx, productID, magnitude, reason, actorID)
			if cerr != nil {
				return cerr
			}
			level = *created
			record = createdRecord
			return nil
		case err != nil:
			return err
		}

		if kind == domain.KindInitialStock {
			return domain.ErrAlreadyExists
		}
		if level.ReconcileRequired {
			return domain.ErrReconcileRequired
		}

		change, err := domain.ComputeAdjustment(level.Quantity, kind, magnitude)
		if err != nil {
			return err
		}

		// Guarded update: the WHERE clause on version is the optimistic
		// lock. Zero rows affected means a concurrent writer won.
		res := tx.Model(&domain.StockLevel{}).
			Where("product_id = ? AND version = ?", productID, level.Version).
			Updates(map[string]interface{}{
				"quantity": change.NewQuantity,
				"version":  level.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errVersionRace
		}

		record = &domain.AdjustmentRecord{
			ID:                 uuid.NewString(),
			ProductID:          productID,
			Kind:               kind,
			Delta:              change.Delta,
			PreviousQuantity:   level.Quantity,
			NewQuantity:        change.NewQuantity,
			RequestedMagnitude: magnitude,
			Reason:             reason,
			ActorID:            actorID,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		level.Quantity = change.NewQuantity
		level.Version++
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &level, record, nil
}

func (r *GormLedgerRepository) createInitial(tx *gorm.DB, productID uint, magnitude int, reason, actorID string) (*domain.StockLevel, *domain.AdjustmentRecord, error) {
	if magnitude < 0 {
		return nil, nil, domain.ErrInvalidMagnitude
	}

	level := domain.StockLevel{
		ProductID:         productID,
		Quantity:          magnitude,
		LowStockThreshold: r.defaultLowStockThreshold,
		Version:           1,
	}
	if err := tx.Create(&level).Error; err != nil {
		// The unique index on product_id turns a creation race into a
		// duplicate-key error.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, domain.ErrAlreadyExists
		}
		return nil, nil, err
	}

	record := &domain.AdjustmentRecord{
		ID:                 uuid.NewString(),
		ProductID:          productID,
		Kind:               domain.KindInitialStock,
		Delta:              magnitude,
		PreviousQuantity:   0,
		NewQuantity:        magnitude,
		RequestedMagnitude: magnitude,
		Reason:             reason,
		ActorID:            actorID,
	}
	if err := tx.Create(record).Error; err != nil {
		return nil, nil, err
	}

	return &level, record, nil
}

func (r *GormLedgerRepository) FindByProductID(ctx context.Context, productID uint) (*domain.StockLevel, error) {
	var level domain.StockLevel
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&level).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *GormLedgerRepository) ListLowStock(ctx context.Context) ([]domain.StockLevel, error) {
	var levels []domain.StockLevel
	err := r.db.WithContext(ctx).
		Where("quantity > 0 AND quantity <= low_stock_threshold").
		Order("quantity ASC").
		Find(&levels).Error
	return levels, err
}

func (r *GormLedgerRepository) ListOutOfStock(ctx context.Context) ([]domain.StockLevel, error) {
	var levels []domain.StockLevel
	err := r.db.WithContext(ctx).
		Where("quantity = 0").
		Order("updated_at DESC").
		Find(&levels).Error
	return levels, err
}

func (r *GormLedgerRepository) ListAdjustments(ctx context.Context, productID uint, limit, offset int) ([]domain.AdjustmentRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []domain.AdjustmentRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, err
}

// VerifyLedger replays the adjustment log for a product and compares the
// summed deltas against the stored quantity.
func (r *GormLedgerRepository) VerifyLedger(ctx context.Context, productID uint) (*domain.LedgerVerification, error) {
	level, err := r.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var row struct {
		Total int64
		Count int64
	}
	err = r.db.WithContext(ctx).
		Model(&domain.AdjustmentRecord{}).
		Select("COALESCE(SUM(delta), 0) AS total, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &domain.LedgerVerification{
		ProductID:        productID,
		StoredQuantity:   level.Quantity,
		ReplayedQuantity: int(row.Total),
		RecordCount:      int(row.Count),
		Consistent:       int(row.Total) == level.Quantity,
	}, nil
}

// MarkReconcileRequired halts further writes to the product until manual
// reconciliation clears the flag.
func (r *GormLedgerRepository) MarkReconcileRequired(ctx context.Context, productID uint) error {
	res := r.db.WithContext(ctx).
		Model(&domain.StockLevel{}).
		Where("product_id = ?", productID).
		Update("reconcile_required", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
