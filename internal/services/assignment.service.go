package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/internal/repository"
	"github.com/openfleet/shipping-gateway/pkg/logger"
)

var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrDriverUnavailable  = errors.New("driver is not available")
	ErrDriverBooked       = errors.New("driver already has an active assignment")
	ErrOverCapacity       = errors.New("shipment exceeds vehicle capacity")
	ErrInvalidAssignment  = errors.New("invalid assignment status")
)

type AssignmentRepository interface {
	Create(ctx context.Context, a *model.Assignment) (*model.Assignment, error)
	FindByID(ctx context.Context, id int64) (*model.Assignment, error)
	FindByShipmentID(ctx context.Context, shipmentID string) (*model.Assignment, error)
	FindActiveByDriverID(ctx context.Context, driverID int64) ([]*model.Assignment, error)
	UpdateStatus(ctx context.Context, id int64, status model.AssignmentStatus) error
	FindAllWithDetails(ctx context.Context, status *model.AssignmentStatus) ([]*model.AssignmentDetail, error)
}

// AssignmentService is the strict assignment workflow. Unlike the direct
// driver endpoint it refuses unavailable or double-booked drivers and
// checks vehicle capacity before committing.
type AssignmentService struct {
	assignmentRepo AssignmentRepository
	shipmentRepo   ShipmentRepository
	driverRepo     DriverRepository
	routeRepo      RouteRepository
	userRepo       UserRepository
	cache          ViewCache
	publisher      EventPublisher
	notifications  NotificationQueue
}

func NewAssignmentService(
	assignmentRepo AssignmentRepository,
	shipmentRepo ShipmentRepository,
	driverRepo DriverRepository,
	routeRepo RouteRepository,
	userRepo UserRepository,
	viewCache ViewCache,
	publisher EventPublisher,
	notifications NotificationQueue,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		shipmentRepo:   shipmentRepo,
		driverRepo:     driverRepo,
		routeRepo:      routeRepo,
		userRepo:       userRepo,
		cache:          viewCache,
		publisher:      publisher,
		notifications:  notifications,
	}
}

// Create runs the full gate: shipment, driver and route must exist, the
// driver must be available with enough capacity and no active assignment.
// The assignment row, the driver flip to busy and the shipment columns
// commit in one transaction.
func (s *AssignmentService) Create(ctx context.Context, p model.AssignmentCreateRequest) (*model.Assignment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	shipment, err := s.shipmentRepo.FindByID(ctx, p.ShipmentID)
	if err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, fmt.Errorf("lookup shipment: %w", err)
	}

	driver, err := s.driverRepo.FindByID(ctx, p.DriverID)
	if err != nil {
		if errors.Is(err, repository.ErrDriverNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, fmt.Errorf("lookup driver: %w", err)
	}

	if _, err := s.routeRepo.FindByID(ctx, p.RouteID); err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("lookup route: %w", err)
	}

	if driver.Status != model.DriverAvailable {
		return nil, ErrDriverUnavailable
	}
	if shipment.Weight > driver.VehicleCapacity {
		return nil, ErrOverCapacity
	}

	active, err := s.assignmentRepo.FindActiveByDriverID(ctx, p.DriverID)
	if err != nil {
		return nil, fmt.Errorf("lookup active assignments: %w", err)
	}
	if len(active) > 0 {
		return nil, ErrDriverBooked
	}

	var created *model.Assignment
	err = s.shipmentRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.assignmentRepo.Create(ctx, &model.Assignment{
			ShipmentID: p.ShipmentID,
			RouteID:    p.RouteID,
			DriverID:   p.DriverID,
			Status:     model.AssignmentAssigned,
		})
		if err != nil {
			return fmt.Errorf("create assignment: %w", err)
		}
		created = c

		if err := s.driverRepo.UpdateStatus(ctx, p.DriverID, model.DriverBusy); err != nil {
			return fmt.Errorf("mark driver busy: %w", err)
		}

		if err := s.shipmentRepo.AssignDriverAndRoute(ctx, p.ShipmentID, p.DriverID, p.RouteID); err != nil {
			return fmt.Errorf("update shipment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.refreshShipment(ctx, p.ShipmentID)

	if driverUser, err := s.userRepo.FindByID(ctx, driver.UserID); err == nil {
		s.enqueueEmail(ctx, &model.EmailJob{
			Kind:        model.EmailShipmentAssigned,
			To:          driverUser.Email,
			Name:        driverUser.Name,
			ShipmentID:  p.ShipmentID,
			Destination: shipment.Destination,
		})
	}

	return created, nil
}

// UpdateStatus advances the assignment. Reaching a terminal state frees
// the driver for the next job.
func (s *AssignmentService) UpdateStatus(ctx context.Context, id int64, status model.AssignmentStatus) (*model.Assignment, error) {
	if !status.Valid() {
		return nil, ErrInvalidAssignment
	}

	assignment, err := s.assignmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	err = s.shipmentRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.assignmentRepo.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		if status.Terminal() && !assignment.Status.Terminal() {
			if err := s.driverRepo.UpdateStatus(ctx, assignment.DriverID, model.DriverAvailable); err != nil {
				return fmt.Errorf("free driver: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	return s.assignmentRepo.FindByID(ctx, id)
}

func (s *AssignmentService) Find(ctx context.Context, id int64) (*model.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) FindByShipmentID(ctx context.Context, shipmentID string) (*model.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByShipmentID(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) FindAllWithDetails(ctx context.Context, status *model.AssignmentStatus) ([]*model.AssignmentDetail, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidAssignment
	}
	return s.assignmentRepo.FindAllWithDetails(ctx, status)
}

// refreshShipment drops the cached view and rebroadcasts. Best effort; the
// assignment already committed.
func (s *AssignmentService) refreshShipment(ctx context.Context, shipmentID string) {
	if s.cache != nil {
		s.cache.InvalidateView(shipmentID)
	}
	if s.publisher == nil {
		return
	}

	shipment, err := s.shipmentRepo.FindByID(ctx, shipmentID)
	if err != nil {
		logger.Warn("failed to reload shipment after assignment", "shipment_id", shipmentID, "error", err.Error())
		return
	}
	if err := s.publisher.PublishShipmentUpdate(&model.ShipmentView{Shipment: *shipment}); err != nil {
		logger.Warn("failed to publish shipment update", "shipment_id", shipmentID, "error", err.Error())
	}
}

func (s *AssignmentService) enqueueEmail(ctx context.Context, job *model.EmailJob) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.PublishJSON(ctx, job, nil); err != nil {
		logger.Warn("failed to enqueue email", "kind", string(job.Kind), "to", job.To, "error", err.Error())
	}
}
