package repository

import (
	"context"
	"testing"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverRepository_FindAvailable(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewDriverRepository(db)
	ctx := context.Background()

	seed := func(t *testing.T, license string, status model.DriverStatus) int64 {
		user := &UserEntity{Name: "Driver " + license, Email: license + "@example.com", Password: "x", Role: "driver"}
		require.NoError(t, db.Write(ctx).Create(user).Error)
		driver := &DriverEntity{UserID: user.ID, License: license, VehicleType: "van", VehicleCapacity: 800, Status: string(status)}
		require.NoError(t, db.Write(ctx).Create(driver).Error)
		return driver.ID
	}

	availableID := seed(t, "D-301", model.DriverAvailable)
	seed(t, "D-302", model.DriverBusy)
	seed(t, "D-303", model.DriverOffline)

	t.Run("only available drivers", func(t *testing.T) {
		drivers, err := repo.FindAvailable(ctx)
		require.NoError(t, err)
		require.Len(t, drivers, 1)
		assert.Equal(t, availableID, drivers[0].ID)
	})

	t.Run("find all ignores status", func(t *testing.T) {
		drivers, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, drivers, 3)
	})
}

func TestDriverRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewDriverRepository(db)
	ctx := context.Background()

	user := &UserEntity{Name: "Sam Low", Email: "sam@example.com", Password: "x", Role: "driver"}
	require.NoError(t, db.Write(ctx).Create(user).Error)
	driver := &DriverEntity{UserID: user.ID, License: "D-400", VehicleType: "truck", VehicleCapacity: 1500, Status: string(model.DriverAvailable)}
	require.NoError(t, db.Write(ctx).Create(driver).Error)

	t.Run("marks driver busy", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, driver.ID, model.DriverBusy)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, driver.ID)
		require.NoError(t, err)
		assert.Equal(t, model.DriverBusy, found.Status)
	})

	t.Run("unknown driver", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, 9999, model.DriverBusy)
		assert.ErrorIs(t, err, ErrDriverNotFound)
	})
}
