package model

import (
	"time"
)

// AssignmentStatus is the lifecycle state of a shipment assignment.
type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentCancelled  AssignmentStatus = "cancelled"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentAssigned, AssignmentInProgress, AssignmentCompleted, AssignmentCancelled:
		return true
	}
	return false
}

// Terminal reports whether the assignment no longer occupies the driver.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentCompleted || s == AssignmentCancelled
}

// Assignment binds a shipment to a driver and a route.
type Assignment struct {
	ID          int64            `json:"id"           db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	ShipmentID  string           `json:"shipment_id"  db:"shipment_id"  gorm:"column:shipment_id;not null;index"`
	RouteID     int64            `json:"route_id"     db:"route_id"     gorm:"column:route_id;not null"`
	DriverID    int64            `json:"driver_id"    db:"driver_id"    gorm:"column:driver_id;not null;index"`
	Status      AssignmentStatus `json:"status"       db:"status"       gorm:"column:status;not null;default:assigned;index"`
	AssignedAt  time.Time        `json:"assigned_at"  db:"assigned_at"  gorm:"column:assigned_at"`
	CompletedAt *time.Time       `json:"completed_at" db:"completed_at" gorm:"column:completed_at"`
	CreatedAt   time.Time        `json:"created_at"   db:"created_at"   gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `json:"updated_at"   db:"updated_at"   gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   *time.Time       `json:"-"            db:"deleted_at"   gorm:"column:deleted_at;index"`
}

func (Assignment) TableName() string { return "shipment_assignments" }

// AssignmentCreateRequest is the input for the strict assignment path.
type AssignmentCreateRequest struct {
	ShipmentID string `json:"shipment_id"`
	RouteID    int64  `json:"route_id"`
	DriverID   int64  `json:"driver_id"`
}

func (p AssignmentCreateRequest) Validate() error {
	if p.ShipmentID == "" {
		return validationErr("shipment_id is required")
	}
	if p.RouteID == 0 {
		return validationErr("route_id is required")
	}
	if p.DriverID == 0 {
		return validationErr("driver_id is required")
	}
	return nil
}

// AssignmentDetail is the denormalized assignment listing row.
type AssignmentDetail struct {
	Assignment
	Weight           float64 `json:"weight"            gorm:"column:weight"`
	Dimensions       string  `json:"dimensions"        gorm:"column:dimensions"`
	ProductType      string  `json:"product_type"      gorm:"column:product_type"`
	Destination      string  `json:"destination"       gorm:"column:destination"`
	RouteName        string  `json:"route_name"        gorm:"column:route_name"`
	RouteOrigin      string  `json:"route_origin"      gorm:"column:route_origin"`
	RouteDestination string  `json:"route_destination" gorm:"column:route_destination"`
	EstimatedTime    float64 `json:"estimated_time"    gorm:"column:estimated_time"`
	DriverName       string  `json:"driver_name"       gorm:"column:driver_name"`
}
