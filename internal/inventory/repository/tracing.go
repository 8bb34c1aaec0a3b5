package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fernholt/storefront/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-ledger")

// TracedLedgerRepository decorates a LedgerRepository with OpenTelemetry
// spans for every operation.
type TracedLedgerRepository struct {
	inner domain.LedgerRepository
}

func NewTracedLedgerRepository(inner domain.LedgerRepository) *TracedLedgerRepository {
	return &TracedLedgerRepository{inner: inner}
}

func (r *TracedLedgerRepository) ApplyAdjustment(ctx context.Context, productID uint, kind domain.AdjustmentKind, magnitude int, reason, actorID string) (*domain.StockLevel, *domain.AdjustmentRecord, error) {
	ctx, span := tracer.Start(ctx, "ledger.ApplyAdjustment",
		trace.WithAttributes(
			attribute.Int("product.id", int(productID)),
			attribute.String("adjustment.kind", string(kind)),
			attribute.Int("adjustment.magnitude", magnitude),
			attribute.String("adjustment.actor", actorID),
		),
	)
	defer span.End()

	level, record, err := r.inner.ApplyAdjustment(ctx, productID, kind, magnitude, reason, actorID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	span.SetAttributes(
		attribute.Int("adjustment.delta", record.Delta),
		attribute.Int("stock.quantity", level.Quantity),
	)
	return level, record, nil
}

func (r *TracedLedgerRepository) FindByProductID(ctx context.Context, productID uint) (*domain.StockLevel, error) {
	ctx, span := tracer.Start(ctx, "ledger.FindByProductID",
		trace.WithAttributes(attribute.Int("product.id", int(productID))),
	)
	defer span.End()

	level, err := r.inner.FindByProductID(ctx, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return level, nil
}

func (r *TracedLedgerRepository) ListLowStock(ctx context.Context) ([]domain.StockLevel, error) {
	ctx, span := tracer.Start(ctx, "ledger.ListLowStock")
	defer span.End()

	levels, err := r.inner.ListLowStock(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("stock.count", len(levels)))
	return levels, nil
}

func (r *TracedLedgerRepository) ListOutOfStock(ctx context.Context) ([]domain.StockLevel, error) {
	ctx, span := tracer.Start(ctx, "ledger.ListOutOfStock")
	defer span.End()

	levels, err := r.inner.ListOutOfStock(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("stock.count", len(levels)))
	return levels, nil
}

func (r *TracedLedgerRepository) ListAdjustments(ctx context.Context, productID uint, limit, offset int) ([]domain.AdjustmentRecord, error) {
	ctx, span := tracer.Start(ctx, "ledger.ListAdjustments",
		trace.WithAttributes(
			attribute.Int("product.id", int(productID)),
			attribute.Int("page.limit", limit),
			attribute.Int("page.offset", offset),
		),
	)
	defer span.End()

	records, err := r.inner.ListAdjustments(ctx, productID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return records, nil
}

func (r *TracedLedgerRepository) VerifyLedger(ctx context.Context, productID uint) (*domain.LedgerVerification, error) {
	ctx, span := tracer.Start(ctx, "ledger.VerifyLedger",
		trace.WithAttributes(attribute.Int("product.id", int(productID))),
	)
	defer span.End()

	verification, err := r.inner.VerifyLedger(ctx, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Bool("ledger.consistent", verification.Consistent))
	return verification, nil
}

func (r *TracedLedgerRepository) MarkReconcileRequired(ctx context.Context, productID uint) error {
	ctx, span := tracer.Start(ctx, "ledger.MarkReconcileRequired",
		trace.WithAttributes(attribute.Int("product.id", int(productID))),
	)
	defer span.End()

	if err := r.inner.MarkReconcileRequired(ctx, productID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
