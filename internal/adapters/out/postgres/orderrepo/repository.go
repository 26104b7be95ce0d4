package orderrepo

import (
	"context"
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository. A nil tracker
// is allowed: writes then persist without aggregate tracking, which is what
// the read-side repository outside a unit of work uses.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormOrderRepository) track(aggregate *order.Order) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
}

// Add saves a new order with its lines to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.track(aggregate)
	return nil
}

// Update saves changes to an existing order. The write is conditional on the
// version the aggregate was loaded with: a concurrent writer that advanced
// the version first makes this update a no-op and the call fails with a
// VersionConflictError. Order lines are immutable and are not rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":        dto.Status,
			"metadata":      dto.Metadata,
			"updated_at":    dto.UpdatedAt,
			"cancelled_at":  dto.CancelledAt,
			"cancel_reason": dto.CancelReason,
			"version":       dto.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionConflictError("order", aggregate.ID().String(), aggregate.Version())
	}

	r.track(aggregate)
	return nil
}

// Get retrieves an order by ID with its lines eagerly loaded.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByUser retrieves one page of a user's orders, newest first, together
// with the user's total order count across all pages.
func (r *GormOrderRepository) GetByUser(
	ctx context.Context, userID kernel.UUID, page, limit int,
) ([]*order.Order, int64, error) {
	if err := userID.Validate(); err != nil {
		return nil, 0, err
	}

	var total int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("user_id = ?", userID.Bytes()).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var dtos []OrderDTO
	err = r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID.Bytes()).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, 0, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, 0, domainErr
		}
		orders = append(orders, o)
	}

	return orders, total, nil
}

// GetStats returns order count and summed total amount grouped by status,
// optionally scoped to a single user.
func (r *GormOrderRepository) GetStats(ctx context.Context, userID *kernel.UUID) ([]ports.StatusStat, error) {
	query := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total_amount").
		Group("status").
		Order("status")
	if userID != nil {
		if err := userID.Validate(); err != nil {
			return nil, err
		}
		query = query.Where("user_id = ?", userID.Bytes())
	}

	var rows []struct {
		Status      int
		Count       int64
		TotalAmount decimal.Decimal
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make([]ports.StatusStat, 0, len(rows))
	for _, row := range rows {
		total, err := kernel.NewMoney(row.TotalAmount)
		if err != nil {
			return nil, err
		}
		stats = append(stats, ports.StatusStat{
			Status:      order.Status(row.Status),
			Count:       row.Count,
			TotalAmount: total,
		})
	}

	return stats, nil
}
