package model

import "time"

// StatusHistory is one row of the append-only shipment audit trail.
// Exactly one row exists per status mutation, including the initial
// null -> pending transition written at creation.
type StatusHistory struct {
	ID              int64           `json:"id"                 db:"id"                 gorm:"primaryKey;autoIncrement;column:id"`
	ShipmentID      string          `json:"shipment_id"        db:"shipment_id"        gorm:"column:shipment_id;not null;index"`
	PreviousStatus  *ShipmentStatus `json:"previous_status"    db:"previous_status"    gorm:"column:previous_status"`
	NewStatus       ShipmentStatus  `json:"new_status"         db:"new_status"         gorm:"column:new_status;not null"`
	ChangedByUserID *int64          `json:"changed_by_user_id" db:"changed_by_user_id" gorm:"column:changed_by_user_id"`
	CreatedAt       time.Time       `json:"created_at"         db:"created_at"         gorm:"column:created_at;autoCreateTime"`
}

func (StatusHistory) TableName() string { return "shipment_status_history" }
