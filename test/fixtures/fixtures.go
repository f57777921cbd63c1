package fixtures

import (
	"time"

	"github.com/openfleet/shipping-gateway/internal/model"
)

var (
	TestAdmin = model.User{
		ID:    1,
		Name:  "Ada Admin",
		Email: "ada@example.com",
		Role:  model.RoleAdmin,
	}

	TestCustomer = model.User{
		ID:    2,
		Name:  "Carl Customer",
		Email: "carl@example.com",
		Role:  model.RoleUser,
	}

	TestDriverUser = model.User{
		ID:    3,
		Name:  "Dina Driver",
		Email: "dina@example.com",
		Role:  model.RoleDriver,
	}

	TestDriverAvailable = model.Driver{
		ID:              1,
		UserID:          3,
		License:         "DL-1001",
		VehicleType:     "van",
		VehicleCapacity: 1000,
		Status:          model.DriverAvailable,
	}

	TestDriverBusy = model.Driver{
		ID:              2,
		UserID:          3,
		License:         "DL-1002",
		VehicleType:     "truck",
		VehicleCapacity: 5000,
		Status:          model.DriverBusy,
	}

	TestRoute = model.Route{
		ID:            1,
		Name:          "Berlin-Hamburg",
		Origin:        "Berlin",
		Destination:   "Hamburg",
		Distance:      289,
		EstimatedTime: 3.5,
	}
)

func NewTestShipment(id string, userID int64, status model.ShipmentStatus) *model.Shipment {
	return &model.Shipment{
		ID:          id,
		Weight:      12.5,
		Dimensions:  "40x30x20",
		ProductType: "electronics",
		Destination: "Hamburg",
		UserID:      userID,
		Status:      status,
		CreatedAt:   time.Now(),
	}
}

func NewTestShipmentCreateRequest(userID int64) model.ShipmentCreateRequest {
	return model.ShipmentCreateRequest{
		UserID:      userID,
		Weight:      12.5,
		Dimensions:  "40x30x20",
		ProductType: "electronics",
		Destination: "Hamburg",
	}
}

func NewTestAssignmentCreateRequest(shipmentID string, driverID, routeID int64) model.AssignmentCreateRequest {
	return model.AssignmentCreateRequest{
		ShipmentID: shipmentID,
		DriverID:   driverID,
		RouteID:    routeID,
	}
}

func NewTestStatusHistory(shipmentID string, prev *model.ShipmentStatus, next model.ShipmentStatus, changedBy *int64) *model.StatusHistory {
	return &model.StatusHistory{
		ShipmentID:      shipmentID,
		PreviousStatus:  prev,
		NewStatus:       next,
		ChangedByUserID: changedBy,
		CreatedAt:       time.Now(),
	}
}

var (
	ValidStatusTransitions = [][2]model.ShipmentStatus{
		{model.ShipmentPending, model.ShipmentInTransit},
		{model.ShipmentPending, model.ShipmentCancelled},
		{model.ShipmentInTransit, model.ShipmentDelivered},
		{model.ShipmentInTransit, model.ShipmentCancelled},
	}

	InvalidStatusTransitions = [][2]model.ShipmentStatus{
		{model.ShipmentPending, model.ShipmentDelivered},
		{model.ShipmentDelivered, model.ShipmentInTransit},
		{model.ShipmentDelivered, model.ShipmentPending},
		{model.ShipmentCancelled, model.ShipmentInTransit},
	}
)

func ShipmentFilterByStatus(status model.ShipmentStatus) model.ShipmentFilter {
	return model.ShipmentFilter{
		Status: &status,
		Page:   1,
		Limit:  10,
	}
}

func ShipmentFilterByDriver(driverID int64) model.ShipmentFilter {
	return model.ShipmentFilter{
		DriverID: &driverID,
		Page:     1,
		Limit:    10,
	}
}

func ShipmentFilterByDateRange(start, end time.Time) model.ShipmentFilter {
	return model.ShipmentFilter{
		StartDate: &start,
		EndDate:   &end,
		Page:      1,
		Limit:     10,
	}
}
