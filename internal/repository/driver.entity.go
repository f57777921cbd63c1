package repository

import (
	"time"

	"github.com/openfleet/shipping-gateway/internal/model"
)

type DriverEntity struct {
	ID              int64       `db:"id"               gorm:"primaryKey;autoIncrement;column:id"`
	UserID          int64       `db:"user_id"          gorm:"column:user_id;not null;index"`
	User            *UserEntity `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	License         string      `db:"license"          gorm:"column:license;not null"`
	VehicleType     string      `db:"vehicle_type"     gorm:"column:vehicle_type;not null"`
	VehicleCapacity float64     `db:"vehicle_capacity" gorm:"column:vehicle_capacity;not null"`
	Status          string      `db:"status"           gorm:"column:status;not null;default:available"`
	CreatedAt       time.Time   `db:"created_at"       gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time   `db:"updated_at"       gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       *time.Time  `db:"deleted_at"       gorm:"column:deleted_at;index"`
}

func (DriverEntity) TableName() string {
	return "drivers"
}

func toDriverModel(e *DriverEntity) *model.Driver {
	if e == nil {
		return nil
	}
	return &model.Driver{
		ID:              e.ID,
		UserID:          e.UserID,
		User:            toUserModel(e.User),
		License:         e.License,
		VehicleType:     e.VehicleType,
		VehicleCapacity: e.VehicleCapacity,
		Status:          model.DriverStatus(e.Status),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
		DeletedAt:       e.DeletedAt,
	}
}

func toDriverModels(entities []*DriverEntity) []*model.Driver {
	if entities == nil {
		return nil
	}
	models := make([]*model.Driver, len(entities))
	for i, e := range entities {
		models[i] = toDriverModel(e)
	}
	return models
}
