package model

import (
	"time"
)

// ShipmentStatus is the lifecycle state of a shipment.
type ShipmentStatus string

const (
	ShipmentPending   ShipmentStatus = "pending"
	ShipmentInTransit ShipmentStatus = "in_transit"
	ShipmentDelivered ShipmentStatus = "delivered"
	ShipmentCancelled ShipmentStatus = "cancelled"
)

func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentPending, ShipmentInTransit, ShipmentDelivered, ShipmentCancelled:
		return true
	}
	return false
}

// allowedTransitions is the explicit status graph. Delivered and cancelled
// are terminal.
var allowedTransitions = map[ShipmentStatus][]ShipmentStatus{
	ShipmentPending:   {ShipmentInTransit, ShipmentCancelled},
	ShipmentInTransit: {ShipmentDelivered, ShipmentCancelled},
}

// CanTransition reports whether a shipment may move from to next.
func (s ShipmentStatus) CanTransition(next ShipmentStatus) bool {
	for _, t := range allowedTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Shipment is a trackable delivery unit owned by a user. The id is an
// opaque string generated at creation time; rows are soft-deleted only.
type Shipment struct {
	ID          string         `json:"id"                  db:"id"           gorm:"primaryKey;column:id"`
	Weight      float64        `json:"weight"              db:"weight"       gorm:"column:weight;not null"`
	Dimensions  string         `json:"dimensions"          db:"dimensions"   gorm:"column:dimensions;not null"`
	ProductType string         `json:"product_type"        db:"product_type" gorm:"column:product_type;not null"`
	Destination string         `json:"destination"         db:"destination"  gorm:"column:destination;not null"`
	UserID      int64          `json:"user_id"             db:"user_id"      gorm:"column:user_id;not null;index"`
	DriverID    *int64         `json:"driver_id,omitempty" db:"driver_id"    gorm:"column:driver_id;index"`
	RouteID     *int64         `json:"route_id,omitempty"  db:"route_id"     gorm:"column:route_id;index"`
	Status      ShipmentStatus `json:"status"              db:"status"       gorm:"column:status;not null;default:pending;index"`
	Version     int64          `json:"version"             db:"version"      gorm:"column:version;not null;default:0"`
	CreatedAt   time.Time      `json:"created_at"          db:"created_at"   gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at"          db:"updated_at"   gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   *time.Time     `json:"-"                   db:"deleted_at"   gorm:"column:deleted_at;index"`
}

func (Shipment) TableName() string { return "shipments" }

// ShipmentCreateRequest is the input for creating a shipment.
type ShipmentCreateRequest struct {
	UserID      int64   `json:"-"`
	Weight      float64 `json:"weight"`
	Dimensions  string  `json:"dimensions"`
	ProductType string  `json:"product_type"`
	Destination string  `json:"destination"`
}

func (p ShipmentCreateRequest) Validate() error {
	if p.UserID == 0 {
		return validationErr("user_id is required")
	}
	if p.Weight <= 0 {
		return validationErr("weight must be positive")
	}
	if p.Dimensions == "" {
		return validationErr("dimensions is required")
	}
	if p.ProductType == "" {
		return validationErr("product_type is required")
	}
	if p.Destination == "" {
		return validationErr("destination is required")
	}
	return nil
}

// ShipmentFilter controls the advanced list query.
type ShipmentFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *ShipmentStatus
	DriverID  *int64
	Page      int // 1-based, default 1
	Limit     int // default 10
}

// Normalize clamps pagination to sane values.
func (f *ShipmentFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 10
	}
}
