package repository

import (
	"time"

	"github.com/openfleet/shipping-gateway/internal/model"
)

type ShipmentEntity struct {
	ID          string     `db:"id"           gorm:"primaryKey;column:id"`
	Weight      float64    `db:"weight"       gorm:"column:weight;not null"`
	Dimensions  string     `db:"dimensions"   gorm:"column:dimensions;not null"`
	ProductType string     `db:"product_type" gorm:"column:product_type;not null"`
	Destination string     `db:"destination"  gorm:"column:destination;not null"`
	UserID      int64      `db:"user_id"      gorm:"column:user_id;not null;index"`
	DriverID    *int64     `db:"driver_id"    gorm:"column:driver_id;index"`
	RouteID     *int64     `db:"route_id"     gorm:"column:route_id;index"`
	Status      string     `db:"status"       gorm:"column:status;not null;default:pending;index"`
	Version     int64      `db:"version"      gorm:"column:version;not null;default:0"`
	CreatedAt   time.Time  `db:"created_at"   gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `db:"updated_at"   gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   *time.Time `db:"deleted_at"   gorm:"column:deleted_at;index"`
}

func (ShipmentEntity) TableName() string {
	return "shipments"
}

func toShipmentEntity(s *model.Shipment) *ShipmentEntity {
	if s == nil {
		return nil
	}
	return &ShipmentEntity{
		ID:          s.ID,
		Weight:      s.Weight,
		Dimensions:  s.Dimensions,
		ProductType: s.ProductType,
		Destination: s.Destination,
		UserID:      s.UserID,
		DriverID:    s.DriverID,
		RouteID:     s.RouteID,
		Status:      string(s.Status),
		Version:     s.Version,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		DeletedAt:   s.DeletedAt,
	}
}

func toShipmentModel(e *ShipmentEntity) *model.Shipment {
	if e == nil {
		return nil
	}
	return &model.Shipment{
		ID:          e.ID,
		Weight:      e.Weight,
		Dimensions:  e.Dimensions,
		ProductType: e.ProductType,
		Destination: e.Destination,
		UserID:      e.UserID,
		DriverID:    e.DriverID,
		RouteID:     e.RouteID,
		Status:      model.ShipmentStatus(e.Status),
		Version:     e.Version,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		DeletedAt:   e.DeletedAt,
	}
}

func toShipmentModels(entities []*ShipmentEntity) []*model.Shipment {
	if entities == nil {
		return nil
	}
	models := make([]*model.Shipment, len(entities))
	for i, e := range entities {
		models[i] = toShipmentModel(e)
	}
	return models
}
