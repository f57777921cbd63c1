package services

import (
	"context"
	"errors"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/internal/repository"
)

var ErrInvalidDriverStatus = errors.New("invalid driver status")

type DriverService struct {
	driverRepo DriverRepository
}

func NewDriverService(driverRepo DriverRepository) *DriverService {
	return &DriverService{driverRepo: driverRepo}
}

func (s *DriverService) Find(ctx context.Context, id int64) (*model.Driver, error) {
	driver, err := s.driverRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDriverNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	scrubDriver(driver)
	return driver, nil
}

func (s *DriverService) FindAll(ctx context.Context) ([]*model.Driver, error) {
	drivers, err := s.driverRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range drivers {
		scrubDriver(d)
	}
	return drivers, nil
}

// FindAvailable lists drivers that can take a new assignment right now.
func (s *DriverService) FindAvailable(ctx context.Context) ([]*model.Driver, error) {
	drivers, err := s.driverRepo.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range drivers {
		scrubDriver(d)
	}
	return drivers, nil
}

// UpdateStatus lets a driver toggle availability directly, outside the
// assignment lifecycle.
func (s *DriverService) UpdateStatus(ctx context.Context, id int64, status model.DriverStatus) (*model.Driver, error) {
	if !status.Valid() {
		return nil, ErrInvalidDriverStatus
	}
	if err := s.driverRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrDriverNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return s.Find(ctx, id)
}

func scrubDriver(d *model.Driver) {
	if d.User != nil {
		d.User.Password = ""
	}
}
