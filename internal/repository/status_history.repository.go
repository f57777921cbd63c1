package repository

import (
	"context"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/pkg/pg"
)

// StatusHistoryRepository writes the append-only audit trail. Rows are
// never updated or deleted.
type StatusHistoryRepository struct {
	*pg.DB
}

func NewStatusHistoryRepository(db *pg.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{
		db,
	}
}

func (r *StatusHistoryRepository) Create(ctx context.Context, h *model.StatusHistory) (*model.StatusHistory, error) {
	entity := toStatusHistoryEntity(h)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toStatusHistoryModel(entity), nil
}

func (r *StatusHistoryRepository) FindByShipmentID(ctx context.Context, shipmentID string) ([]*model.StatusHistory, error) {
	var entities []*StatusHistoryEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("created_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toStatusHistoryModels(entities), nil
}
