package repository

import (
	"context"
	"errors"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/pkg/pg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrShipmentNotFound   = errors.New("shipment not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrConcurrentUpdate   = errors.New("concurrent update detected")
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

type ShipmentRepository struct {
	*pg.DB
}

func NewShipmentRepository(db *pg.DB) *ShipmentRepository {
	return &ShipmentRepository{
		db,
	}
}

func (r *ShipmentRepository) Create(ctx context.Context, s *model.Shipment) (*model.Shipment, error) {
	entity := toShipmentEntity(s)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toShipmentModel(entity), nil
}

func (r *ShipmentRepository) FindByID(ctx context.Context, id string) (*model.Shipment, error) {
	var entity ShipmentEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	return toShipmentModel(&entity), nil
}

func (r *ShipmentRepository) FindByUserID(ctx context.Context, userID int64) ([]*model.Shipment, error) {
	var entities []*ShipmentEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Order("created_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toShipmentModels(entities), nil
}

func (r *ShipmentRepository) FindAll(ctx context.Context) ([]*model.Shipment, error) {
	var entities []*ShipmentEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toShipmentModels(entities), nil
}

// UpdateStatus moves a shipment to next under a row lock, enforcing the
// allowed-transitions table and bumping the version counter. It returns the
// status the shipment held before the write. Callers should run this inside
// WithinTransaction together with the history append.
func (r *ShipmentRepository) UpdateStatus(ctx context.Context, id string, next model.ShipmentStatus) (model.ShipmentStatus, error) {
	var entity ShipmentEntity

	err := r.Write(ctx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrShipmentNotFound
		}
		return "", err
	}

	prev := model.ShipmentStatus(entity.Status)
	if !prev.CanTransition(next) {
		return prev, ErrInvalidTransition
	}

	result := r.Write(ctx).WithContext(ctx).
		Model(&ShipmentEntity{}).
		Where("id = ? AND version = ?", id, entity.Version).
		Updates(map[string]interface{}{
			"status":  string(next),
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return prev, result.Error
	}
	if result.RowsAffected == 0 {
		return prev, ErrConcurrentUpdate
	}

	return prev, nil
}

// AssignDriverAndRoute is the permissive assignment path: a blind column
// update. Driver availability is deliberately not checked here; the strict
// gate lives in the assignment workflow.
func (r *ShipmentRepository) AssignDriverAndRoute(ctx context.Context, id string, driverID, routeID int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&ShipmentEntity{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"driver_id": driverID,
			"route_id":  routeID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrShipmentNotFound
	}
	return nil
}

func (r *ShipmentRepository) FindWithAdvancedFilters(ctx context.Context, f model.ShipmentFilter) ([]*model.ShipmentListItem, int64, error) {
	f.Normalize()

	q := r.Read(ctx).WithContext(ctx).
		Table("shipments AS s").
		Select(`
            s.*,
            u.name       AS customer_name,
            du.name      AS driver_name,
            r.name       AS route_name,
            r.distance   AS route_distance
        `).
		Joins("LEFT JOIN users u ON s.user_id = u.id").
		Joins("LEFT JOIN drivers d ON s.driver_id = d.id").
		Joins("LEFT JOIN users du ON d.user_id = du.id").
		Joins("LEFT JOIN routes r ON s.route_id = r.id").
		Where("s.deleted_at IS NULL")

	if f.StartDate != nil {
		q = q.Where("s.created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("s.created_at <= ?", *f.EndDate)
	}
	if f.Status != nil {
		q = q.Where("s.status = ?", string(*f.Status))
	}
	if f.DriverID != nil {
		q = q.Where("s.driver_id = ?", *f.DriverID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit

	var items []*model.ShipmentListItem
	err := q.Order("s.created_at DESC").
		Limit(f.Limit).
		Offset(offset).
		Find(&items).
		Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *ShipmentRepository) GetPerformanceMetrics(ctx context.Context, f model.MetricsFilter) (*model.ShipmentMetrics, error) {
	timeRange := "WHERE s.deleted_at IS NULL"
	var params []interface{}
	if f.StartDate != nil && f.EndDate != nil {
		timeRange = "WHERE s.created_at BETWEEN ? AND ? AND s.deleted_at IS NULL"
		params = append(params, *f.StartDate, *f.EndDate)
	} else if f.StartDate != nil {
		timeRange = "WHERE s.created_at >= ? AND s.deleted_at IS NULL"
		params = append(params, *f.StartDate)
	} else if f.EndDate != nil {
		timeRange = "WHERE s.created_at <= ? AND s.deleted_at IS NULL"
		params = append(params, *f.EndDate)
	}

	driverQuery := `
        SELECT
            d.id    AS driver_id,
            u.name  AS driver_name,
            AVG(EXTRACT(EPOCH FROM (
                (SELECT MIN(sh.created_at) FROM shipment_status_history sh
                 WHERE sh.shipment_id = s.id AND sh.new_status = 'delivered')
                -
                (SELECT MIN(sh.created_at) FROM shipment_status_history sh
                 WHERE sh.shipment_id = s.id AND sh.new_status = 'in_transit')
            )) / 3600.0)                                             AS avg_delivery_hours,
            COUNT(s.id)                                              AS total_shipments,
            SUM(CASE WHEN s.status = 'delivered' THEN 1 ELSE 0 END)  AS completed_shipments,
            SUM(CASE WHEN s.status = 'in_transit' THEN 1 ELSE 0 END) AS in_transit_shipments,
            SUM(CASE WHEN s.status = 'pending' THEN 1 ELSE 0 END)    AS pending_shipments
        FROM shipments s
        JOIN drivers d ON s.driver_id = d.id
        JOIN users u ON d.user_id = u.id
        ` + timeRange + `
        GROUP BY d.id, u.name
    `

	overallQuery := `
        SELECT
            COUNT(s.id)                                              AS total_shipments,
            SUM(CASE WHEN s.status = 'delivered' THEN 1 ELSE 0 END)  AS completed_shipments,
            SUM(CASE WHEN s.status = 'in_transit' THEN 1 ELSE 0 END) AS in_transit_shipments,
            SUM(CASE WHEN s.status = 'pending' THEN 1 ELSE 0 END)    AS pending_shipments,
            AVG(CASE WHEN s.status = 'delivered' THEN EXTRACT(EPOCH FROM (
                (SELECT MIN(sh.created_at) FROM shipment_status_history sh
                 WHERE sh.shipment_id = s.id AND sh.new_status = 'delivered')
                - s.created_at
            )) / 3600.0 ELSE NULL END)                               AS avg_delivery_time_hours
        FROM shipments s
        ` + timeRange + `
    `

	trendsQuery := `
        SELECT
            to_char(s.created_at, 'YYYY-MM')                         AS month,
            COUNT(s.id)                                              AS total_shipments,
            SUM(CASE WHEN s.status = 'delivered' THEN 1 ELSE 0 END)  AS completed_shipments
        FROM shipments s
        ` + timeRange + `
        GROUP BY to_char(s.created_at, 'YYYY-MM')
        ORDER BY month
    `

	var driverPerformance []*model.DriverPerformance
	if err := r.Read(ctx).WithContext(ctx).Raw(driverQuery, params...).Scan(&driverPerformance).Error; err != nil {
		return nil, err
	}

	var overall model.OverallMetrics
	if err := r.Read(ctx).WithContext(ctx).Raw(overallQuery, params...).Scan(&overall).Error; err != nil {
		return nil, err
	}

	var trends []*model.MonthlyTrend
	if err := r.Read(ctx).WithContext(ctx).Raw(trendsQuery, params...).Scan(&trends).Error; err != nil {
		return nil, err
	}

	return &model.ShipmentMetrics{
		DriverPerformance: driverPerformance,
		Overall:           &overall,
		MonthlyTrends:     trends,
	}, nil
}
