package model

import (
	"time"
)

// Route is static reference data; never mutated after creation.
type Route struct {
	ID            int64      `json:"id"             db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	Name          string     `json:"name"           db:"name"           gorm:"column:name;not null"`
	Origin        string     `json:"origin"         db:"origin"         gorm:"column:origin;not null"`
	Destination   string     `json:"destination"    db:"destination"    gorm:"column:destination;not null"`
	Distance      float64    `json:"distance"       db:"distance"       gorm:"column:distance;not null"`
	EstimatedTime float64    `json:"estimated_time" db:"estimated_time" gorm:"column:estimated_time;not null"`
	CreatedAt     time.Time  `json:"created_at"     db:"created_at"     gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at"     db:"updated_at"     gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     *time.Time `json:"-"              db:"deleted_at"     gorm:"column:deleted_at;index"`
}

func (Route) TableName() string { return "routes" }

type RouteCreateRequest struct {
	Name          string  `json:"name"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	Distance      float64 `json:"distance"`
	EstimatedTime float64 `json:"estimated_time"`
}

func (p RouteCreateRequest) Validate() error {
	if p.Name == "" {
		return validationErr("name is required")
	}
	if p.Origin == "" {
		return validationErr("origin is required")
	}
	if p.Destination == "" {
		return validationErr("destination is required")
	}
	if p.Distance <= 0 {
		return validationErr("distance must be positive")
	}
	if p.EstimatedTime <= 0 {
		return validationErr("estimated_time must be positive")
	}
	return nil
}
