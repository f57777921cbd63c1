package repository

import (
	"context"
	"errors"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/pkg/pg"
	"gorm.io/gorm"
)

type DriverRepository struct {
	*pg.DB
}

func NewDriverRepository(db *pg.DB) *DriverRepository {
	return &DriverRepository{
		db,
	}
}

func (r *DriverRepository) FindByID(ctx context.Context, id int64) (*model.Driver, error) {
	var entity DriverEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return toDriverModel(&entity), nil
}

func (r *DriverRepository) FindAll(ctx context.Context) ([]*model.Driver, error) {
	var entities []*DriverEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("deleted_at IS NULL").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toDriverModels(entities), nil
}

func (r *DriverRepository) FindAvailable(ctx context.Context) ([]*model.Driver, error) {
	var entities []*DriverEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("status = ? AND deleted_at IS NULL", model.DriverAvailable).
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toDriverModels(entities), nil
}

func (r *DriverRepository) UpdateStatus(ctx context.Context, id int64, status model.DriverStatus) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&DriverEntity{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDriverNotFound
	}
	return nil
}
