package repository

import (
	"time"

	"github.com/openfleet/shipping-gateway/internal/model"
)

type AssignmentEntity struct {
	ID          int64      `db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	ShipmentID  string     `db:"shipment_id"  gorm:"column:shipment_id;not null;index"`
	RouteID     int64      `db:"route_id"     gorm:"column:route_id;not null"`
	DriverID    int64      `db:"driver_id"    gorm:"column:driver_id;not null;index"`
	Status      string     `db:"status"       gorm:"column:status;not null;default:assigned;index"`
	AssignedAt  time.Time  `db:"assigned_at"  gorm:"column:assigned_at"`
	CompletedAt *time.Time `db:"completed_at" gorm:"column:completed_at"`
	CreatedAt   time.Time  `db:"created_at"   gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `db:"updated_at"   gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   *time.Time `db:"deleted_at"   gorm:"column:deleted_at;index"`
}

func (AssignmentEntity) TableName() string {
	return "shipment_assignments"
}

func toAssignmentEntity(a *model.Assignment) *AssignmentEntity {
	if a == nil {
		return nil
	}
	return &AssignmentEntity{
		ID:          a.ID,
		ShipmentID:  a.ShipmentID,
		RouteID:     a.RouteID,
		DriverID:    a.DriverID,
		Status:      string(a.Status),
		AssignedAt:  a.AssignedAt,
		CompletedAt: a.CompletedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		DeletedAt:   a.DeletedAt,
	}
}

func toAssignmentModel(e *AssignmentEntity) *model.Assignment {
	if e == nil {
		return nil
	}
	return &model.Assignment{
		ID:          e.ID,
		ShipmentID:  e.ShipmentID,
		RouteID:     e.RouteID,
		DriverID:    e.DriverID,
		Status:      model.AssignmentStatus(e.Status),
		AssignedAt:  e.AssignedAt,
		CompletedAt: e.CompletedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		DeletedAt:   e.DeletedAt,
	}
}

func toAssignmentModels(entities []*AssignmentEntity) []*model.Assignment {
	if entities == nil {
		return nil
	}
	models := make([]*model.Assignment, len(entities))
	for i, e := range entities {
		models[i] = toAssignmentModel(e)
	}
	return models
}
