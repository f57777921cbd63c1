package repository

import (
	"context"
	"errors"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/pkg/pg"
	"gorm.io/gorm"
)

type RouteRepository struct {
	*pg.DB
}

func NewRouteRepository(db *pg.DB) *RouteRepository {
	return &RouteRepository{
		db,
	}
}

func (r *RouteRepository) Create(ctx context.Context, route *model.Route) (*model.Route, error) {
	entity := toRouteEntity(route)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toRouteModel(entity), nil
}

func (r *RouteRepository) FindByID(ctx context.Context, id int64) (*model.Route, error) {
	var entity RouteEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return toRouteModel(&entity), nil
}

func (r *RouteRepository) FindAll(ctx context.Context) ([]*model.Route, error) {
	var entities []*RouteEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("deleted_at IS NULL").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toRouteModels(entities), nil
}
