package repository

import (
	"time"

	"github.com/openfleet/shipping-gateway/internal/model"
)

type StatusHistoryEntity struct {
	ID              int64     `db:"id"                 gorm:"primaryKey;autoIncrement;column:id"`
	ShipmentID      string    `db:"shipment_id"        gorm:"column:shipment_id;not null;index"`
	PreviousStatus  *string   `db:"previous_status"    gorm:"column:previous_status"`
	NewStatus       string    `db:"new_status"         gorm:"column:new_status;not null"`
	ChangedByUserID *int64    `db:"changed_by_user_id" gorm:"column:changed_by_user_id"`
	CreatedAt       time.Time `db:"created_at"         gorm:"column:created_at;autoCreateTime"`
}

func (StatusHistoryEntity) TableName() string {
	return "shipment_status_history"
}

func toStatusHistoryEntity(h *model.StatusHistory) *StatusHistoryEntity {
	if h == nil {
		return nil
	}
	entity := &StatusHistoryEntity{
		ID:              h.ID,
		ShipmentID:      h.ShipmentID,
		NewStatus:       string(h.NewStatus),
		ChangedByUserID: h.ChangedByUserID,
		CreatedAt:       h.CreatedAt,
	}
	if h.PreviousStatus != nil {
		prev := string(*h.PreviousStatus)
		entity.PreviousStatus = &prev
	}
	return entity
}

func toStatusHistoryModel(e *StatusHistoryEntity) *model.StatusHistory {
	if e == nil {
		return nil
	}
	m := &model.StatusHistory{
		ID:              e.ID,
		ShipmentID:      e.ShipmentID,
		NewStatus:       model.ShipmentStatus(e.NewStatus),
		ChangedByUserID: e.ChangedByUserID,
		CreatedAt:       e.CreatedAt,
	}
	if e.PreviousStatus != nil {
		prev := model.ShipmentStatus(*e.PreviousStatus)
		m.PreviousStatus = &prev
	}
	return m
}

func toStatusHistoryModels(entities []*StatusHistoryEntity) []*model.StatusHistory {
	if entities == nil {
		return nil
	}
	models := make([]*model.StatusHistory, len(entities))
	for i, e := range entities {
		models[i] = toStatusHistoryModel(e)
	}
	return models
}
