package services

import (
	"context"
	"testing"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverService_FindAvailable(t *testing.T) {
	ctx := context.Background()
	driverRepo := new(MockDriverRepository)
	service := NewDriverService(driverRepo)

	driverRepo.On("FindAvailable", ctx).
		Return([]*model.Driver{
			{ID: 1, Status: model.DriverAvailable, User: &model.User{ID: 9, Password: "hash"}},
		}, nil)

	drivers, err := service.FindAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Empty(t, drivers[0].User.Password)
}

func TestDriverService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("valid status", func(t *testing.T) {
		driverRepo := new(MockDriverRepository)
		service := NewDriverService(driverRepo)

		driverRepo.On("UpdateStatus", ctx, int64(1), model.DriverOffline).Return(nil)
		driverRepo.On("FindByID", ctx, int64(1)).
			Return(&model.Driver{ID: 1, Status: model.DriverOffline}, nil)

		driver, err := service.UpdateStatus(ctx, 1, model.DriverOffline)
		require.NoError(t, err)
		assert.Equal(t, model.DriverOffline, driver.Status)
	})

	t.Run("bogus status", func(t *testing.T) {
		service := NewDriverService(new(MockDriverRepository))

		driver, err := service.UpdateStatus(ctx, 1, "sleeping")
		assert.ErrorIs(t, err, ErrInvalidDriverStatus)
		assert.Nil(t, driver)
	})

	t.Run("unknown driver", func(t *testing.T) {
		driverRepo := new(MockDriverRepository)
		service := NewDriverService(driverRepo)

		driverRepo.On("UpdateStatus", ctx, int64(404), model.DriverBusy).
			Return(repository.ErrDriverNotFound)

		driver, err := service.UpdateStatus(ctx, 404, model.DriverBusy)
		assert.ErrorIs(t, err, ErrDriverNotFound)
		assert.Nil(t, driver)
	})
}
