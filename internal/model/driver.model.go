package model

import "time"

// DriverStatus is the availability state of a driver.
type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverBusy      DriverStatus = "busy"
	DriverOffline   DriverStatus = "offline"
)

func (s DriverStatus) Valid() bool {
	switch s {
	case DriverAvailable, DriverBusy, DriverOffline:
		return true
	}
	return false
}

type Driver struct {
	ID              int64        `json:"id"               db:"id"               gorm:"primaryKey;autoIncrement;column:id"`
	UserID          int64        `json:"user_id"          db:"user_id"          gorm:"column:user_id;not null;index"`
	User            *User        `json:"user,omitempty"                          gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	License         string       `json:"license"          db:"license"          gorm:"column:license;not null"`
	VehicleType     string       `json:"vehicle_type"     db:"vehicle_type"     gorm:"column:vehicle_type;not null"`
	VehicleCapacity float64      `json:"vehicle_capacity" db:"vehicle_capacity" gorm:"column:vehicle_capacity;not null"`
	Status          DriverStatus `json:"status"           db:"status"           gorm:"column:status;not null;default:available"`
	CreatedAt       time.Time    `json:"created_at"       db:"created_at"       gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time    `json:"updated_at"       db:"updated_at"       gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       *time.Time   `json:"-"                db:"deleted_at"       gorm:"column:deleted_at;index"`
}

func (Driver) TableName() string { return "drivers" }
