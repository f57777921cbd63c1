package model

import "time"

// ShipmentView is the denormalized single-shipment read model: the row,
// its full status history and, when assigned, the related user, driver and
// route detail. This is what gets cached and broadcast.
type ShipmentView struct {
	Shipment
	History []*StatusHistory `json:"history"`
	User    *User            `json:"user,omitempty"`
	Driver  *Driver          `json:"driver,omitempty"`
	Route   *Route           `json:"route,omitempty"`
}

// ShipmentListItem is one row of the advanced-filter listing.
type ShipmentListItem struct {
	Shipment
	CustomerName  string  `json:"customer_name"  gorm:"column:customer_name"`
	DriverName    string  `json:"driver_name"    gorm:"column:driver_name"`
	RouteName     string  `json:"route_name"     gorm:"column:route_name"`
	RouteDistance float64 `json:"route_distance" gorm:"column:route_distance"`
}

// DriverPerformance aggregates per-driver delivery metrics.
type DriverPerformance struct {
	DriverID           int64    `json:"driver_id"            gorm:"column:driver_id"`
	DriverName         string   `json:"driver_name"          gorm:"column:driver_name"`
	AvgDeliveryHours   *float64 `json:"avg_delivery_hours"   gorm:"column:avg_delivery_hours"`
	TotalShipments     int64    `json:"total_shipments"      gorm:"column:total_shipments"`
	CompletedShipments int64    `json:"completed_shipments"  gorm:"column:completed_shipments"`
	InTransitShipments int64    `json:"in_transit_shipments" gorm:"column:in_transit_shipments"`
	PendingShipments   int64    `json:"pending_shipments"    gorm:"column:pending_shipments"`
}

// OverallMetrics aggregates fleet-wide counts and delivery time.
type OverallMetrics struct {
	TotalShipments       int64    `json:"total_shipments"        gorm:"column:total_shipments"`
	CompletedShipments   int64    `json:"completed_shipments"    gorm:"column:completed_shipments"`
	InTransitShipments   int64    `json:"in_transit_shipments"   gorm:"column:in_transit_shipments"`
	PendingShipments     int64    `json:"pending_shipments"      gorm:"column:pending_shipments"`
	AvgDeliveryTimeHours *float64 `json:"avg_delivery_time_hours" gorm:"column:avg_delivery_time_hours"`
}

// MonthlyTrend is one month of shipment volume.
type MonthlyTrend struct {
	Month              string `json:"month"               gorm:"column:month"`
	TotalShipments     int64  `json:"total_shipments"     gorm:"column:total_shipments"`
	CompletedShipments int64  `json:"completed_shipments" gorm:"column:completed_shipments"`
}

// ShipmentMetrics is the composed metrics payload.
type ShipmentMetrics struct {
	DriverPerformance []*DriverPerformance `json:"driver_performance"`
	Overall           *OverallMetrics      `json:"overall_metrics"`
	MonthlyTrends     []*MonthlyTrend      `json:"monthly_trends"`
}

// MetricsFilter bounds metrics aggregation by creation time.
type MetricsFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}
