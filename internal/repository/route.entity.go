package repository

import (
	"time"

	"github.com/openfleet/shipping-gateway/internal/model"
)

type RouteEntity struct {
	ID            int64      `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	Name          string     `db:"name"           gorm:"column:name;not null"`
	Origin        string     `db:"origin"         gorm:"column:origin;not null"`
	Destination   string     `db:"destination"    gorm:"column:destination;not null"`
	Distance      float64    `db:"distance"       gorm:"column:distance;not null"`
	EstimatedTime float64    `db:"estimated_time" gorm:"column:estimated_time;not null"`
	CreatedAt     time.Time  `db:"created_at"     gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `db:"updated_at"     gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     *time.Time `db:"deleted_at"     gorm:"column:deleted_at;index"`
}

func (RouteEntity) TableName() string {
	return "routes"
}

func toRouteEntity(r *model.Route) *RouteEntity {
	if r == nil {
		return nil
	}
	return &RouteEntity{
		ID:            r.ID,
		Name:          r.Name,
		Origin:        r.Origin,
		Destination:   r.Destination,
		Distance:      r.Distance,
		EstimatedTime: r.EstimatedTime,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		DeletedAt:     r.DeletedAt,
	}
}

func toRouteModel(e *RouteEntity) *model.Route {
	if e == nil {
		return nil
	}
	return &model.Route{
		ID:            e.ID,
		Name:          e.Name,
		Origin:        e.Origin,
		Destination:   e.Destination,
		Distance:      e.Distance,
		EstimatedTime: e.EstimatedTime,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		DeletedAt:     e.DeletedAt,
	}
}

func toRouteModels(entities []*RouteEntity) []*model.Route {
	if entities == nil {
		return nil
	}
	models := make([]*model.Route, len(entities))
	for i, e := range entities {
		models[i] = toRouteModel(e)
	}
	return models
}
