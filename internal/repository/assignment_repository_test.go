package repository

import (
	"context"
	"testing"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	t.Run("defaults status and assigned time", func(t *testing.T) {
		created, err := repo.Create(ctx, &model.Assignment{
			ShipmentID: "shp-asg-1",
			RouteID:    1,
			DriverID:   1,
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, model.AssignmentAssigned, created.Status)
		assert.False(t, created.AssignedAt.IsZero())
		assert.Nil(t, created.CompletedAt)
	})
}

func TestAssignmentRepository_FindByShipmentID(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.Assignment{
		ShipmentID: "shp-asg-find",
		RouteID:    2,
		DriverID:   3,
	})
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		found, err := repo.FindByShipmentID(ctx, "shp-asg-find")
		require.NoError(t, err)
		assert.Equal(t, int64(3), found.DriverID)
		assert.Equal(t, int64(2), found.RouteID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByShipmentID(ctx, "no-such-shipment")
		assert.ErrorIs(t, err, ErrAssignmentNotFound)
	})
}

func TestAssignmentRepository_FindActiveByDriverID(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	seed := func(t *testing.T, shipmentID string, status model.AssignmentStatus) {
		entity := &AssignmentEntity{
			ShipmentID: shipmentID,
			RouteID:    1,
			DriverID:   11,
			Status:     string(status),
		}
		err := db.Write(ctx).Create(entity).Error
		require.NoError(t, err)
	}

	seed(t, "shp-active-1", model.AssignmentAssigned)
	seed(t, "shp-active-2", model.AssignmentInProgress)
	seed(t, "shp-active-3", model.AssignmentCompleted)
	seed(t, "shp-active-4", model.AssignmentCancelled)

	t.Run("terminal assignments are excluded", func(t *testing.T) {
		active, err := repo.FindActiveByDriverID(ctx, 11)
		require.NoError(t, err)
		require.Len(t, active, 2)
		for _, a := range active {
			assert.False(t, a.Status.Terminal())
		}
	})

	t.Run("driver with no assignments", func(t *testing.T) {
		active, err := repo.FindActiveByDriverID(ctx, 99)
		require.NoError(t, err)
		assert.Empty(t, active)
	})
}

func TestAssignmentRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Assignment{
		ShipmentID: "shp-asg-status",
		RouteID:    1,
		DriverID:   1,
	})
	require.NoError(t, err)

	t.Run("moves to in_progress without completion time", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, created.ID, model.AssignmentInProgress)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AssignmentInProgress, found.Status)
		assert.Nil(t, found.CompletedAt)
	})

	t.Run("completion stamps completed_at", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, created.ID, model.AssignmentCompleted)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AssignmentCompleted, found.Status)
		assert.NotNil(t, found.CompletedAt)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, 9999, model.AssignmentCompleted)
		assert.ErrorIs(t, err, ErrAssignmentNotFound)
	})
}

func TestAssignmentRepository_FindAllWithDetails(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	customer := &UserEntity{Name: "Mia Hall", Email: "mia@example.com", Password: "x", Role: "user"}
	require.NoError(t, db.Write(ctx).Create(customer).Error)
	driverUser := &UserEntity{Name: "Tom Reed", Email: "tom@example.com", Password: "x", Role: "driver"}
	require.NoError(t, db.Write(ctx).Create(driverUser).Error)
	driver := &DriverEntity{UserID: driverUser.ID, License: "D-200", VehicleType: "truck", VehicleCapacity: 2000, Status: "busy"}
	require.NoError(t, db.Write(ctx).Create(driver).Error)
	route := &RouteEntity{Name: "Coastal Run", Origin: "Lisbon", Destination: "Porto", Distance: 310, EstimatedTime: 4}
	require.NoError(t, db.Write(ctx).Create(route).Error)
	shipment := &ShipmentEntity{
		ID:          "shp-asg-details",
		Weight:      55,
		Dimensions:  "100x80x60",
		ProductType: "machinery",
		Destination: "Porto",
		UserID:      customer.ID,
		Status:      string(model.ShipmentInTransit),
	}
	require.NoError(t, db.Write(ctx).Create(shipment).Error)

	_, err := repo.Create(ctx, &model.Assignment{
		ShipmentID: shipment.ID,
		RouteID:    route.ID,
		DriverID:   driver.ID,
	})
	require.NoError(t, err)

	details, err := repo.FindAllWithDetails(ctx, nil)
	require.NoError(t, err)
	require.Len(t, details, 1)

	d := details[0]
	assert.Equal(t, shipment.ID, d.ShipmentID)
	assert.Equal(t, 55.0, d.Weight)
	assert.Equal(t, "machinery", d.ProductType)
	assert.Equal(t, "Coastal Run", d.RouteName)
	assert.Equal(t, "Lisbon", d.RouteOrigin)
	assert.Equal(t, "Porto", d.RouteDestination)
	assert.Equal(t, "Tom Reed", d.DriverName)

	assigned := model.AssignmentAssigned
	filtered, err := repo.FindAllWithDetails(ctx, &assigned)
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	completed := model.AssignmentCompleted
	filtered, err = repo.FindAllWithDetails(ctx, &completed)
	require.NoError(t, err)
	assert.Empty(t, filtered)
}
