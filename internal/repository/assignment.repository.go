package repository

import (
	"context"
	"errors"
	"time"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/pkg/pg"
	"gorm.io/gorm"
)

var ErrAssignmentNotFound = errors.New("assignment not found")

type AssignmentRepository struct {
	*pg.DB
}

func NewAssignmentRepository(db *pg.DB) *AssignmentRepository {
	return &AssignmentRepository{
		db,
	}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	entity := toAssignmentEntity(a)
	if entity.Status == "" {
		entity.Status = string(model.AssignmentAssigned)
	}
	if entity.AssignedAt.IsZero() {
		entity.AssignedAt = time.Now()
	}

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toAssignmentModel(entity), nil
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*model.Assignment, error) {
	var entity AssignmentEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return toAssignmentModel(&entity), nil
}

func (r *AssignmentRepository) FindByShipmentID(ctx context.Context, shipmentID string) (*model.Assignment, error) {
	var entity AssignmentEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("shipment_id = ? AND deleted_at IS NULL", shipmentID).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return toAssignmentModel(&entity), nil
}

// FindActiveByDriverID returns the driver's non-terminal assignments.
func (r *AssignmentRepository) FindActiveByDriverID(ctx context.Context, driverID int64) ([]*model.Assignment, error) {
	var entities []*AssignmentEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("driver_id = ? AND status IN (?, ?) AND deleted_at IS NULL",
			driverID, model.AssignmentAssigned, model.AssignmentInProgress).
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toAssignmentModels(entities), nil
}

func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id int64, status model.AssignmentStatus) error {
	updates := map[string]interface{}{
		"status": string(status),
	}
	if status == model.AssignmentCompleted {
		updates["completed_at"] = time.Now()
	}

	result := r.Write(ctx).WithContext(ctx).
		Model(&AssignmentEntity{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

func (r *AssignmentRepository) FindAllWithDetails(ctx context.Context, status *model.AssignmentStatus) ([]*model.AssignmentDetail, error) {
	q := r.Read(ctx).WithContext(ctx).
		Table("shipment_assignments AS sa").
		Select(`
            sa.*,
            s.weight        AS weight,
            s.dimensions    AS dimensions,
            s.product_type  AS product_type,
            s.destination   AS destination,
            r.name          AS route_name,
            r.origin        AS route_origin,
            r.destination   AS route_destination,
            r.estimated_time AS estimated_time,
            u.name          AS driver_name
        `).
		Joins("JOIN shipments s ON sa.shipment_id = s.id").
		Joins("JOIN routes r ON sa.route_id = r.id").
		Joins("JOIN drivers d ON sa.driver_id = d.id").
		Joins("JOIN users u ON d.user_id = u.id").
		Where("sa.deleted_at IS NULL")

	if status != nil {
		q = q.Where("sa.status = ?", string(*status))
	}

	var items []*model.AssignmentDetail
	err := q.Order("sa.created_at DESC").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
