package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openfleet/shipping-gateway/internal/cache"
	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/internal/repository"
	"github.com/openfleet/shipping-gateway/pkg/logger"
	"github.com/openfleet/shipping-gateway/pkg/prom"
)

var (
	ErrShipmentNotFound  = errors.New("shipment not found")
	ErrInvalidStatus     = errors.New("invalid shipment status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDriverNotFound    = errors.New("driver not found")
	ErrRouteNotFound     = errors.New("route not found")
)

type ShipmentRepository interface {
	Create(ctx context.Context, s *model.Shipment) (*model.Shipment, error)
	FindByID(ctx context.Context, id string) (*model.Shipment, error)
	FindByUserID(ctx context.Context, userID int64) ([]*model.Shipment, error)
	FindAll(ctx context.Context) ([]*model.Shipment, error)
	UpdateStatus(ctx context.Context, id string, next model.ShipmentStatus) (model.ShipmentStatus, error)
	AssignDriverAndRoute(ctx context.Context, id string, driverID, routeID int64) error
	FindWithAdvancedFilters(ctx context.Context, f model.ShipmentFilter) ([]*model.ShipmentListItem, int64, error)
	GetPerformanceMetrics(ctx context.Context, f model.MetricsFilter) (*model.ShipmentMetrics, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type StatusHistoryRepository interface {
	Create(ctx context.Context, h *model.StatusHistory) (*model.StatusHistory, error)
	FindByShipmentID(ctx context.Context, shipmentID string) ([]*model.StatusHistory, error)
}

type DriverRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Driver, error)
	FindAll(ctx context.Context) ([]*model.Driver, error)
	FindAvailable(ctx context.Context) ([]*model.Driver, error)
	UpdateStatus(ctx context.Context, id int64, status model.DriverStatus) error
}

type RouteRepository interface {
	Create(ctx context.Context, r *model.Route) (*model.Route, error)
	FindByID(ctx context.Context, id int64) (*model.Route, error)
	FindAll(ctx context.Context) ([]*model.Route, error)
}

// ViewCache is the shipment read cache. Satisfied by cache.ShipmentCache.
type ViewCache interface {
	GetView(id string) (*model.ShipmentView, bool)
	SetView(view *model.ShipmentView)
	InvalidateView(id string)
	GetList(key string) ([]*model.ShipmentListItem, int64, bool)
	SetList(key string, items []*model.ShipmentListItem, total int64)
	GetMetrics(key string) (*model.ShipmentMetrics, bool)
	SetMetrics(key string, metrics *model.ShipmentMetrics)
}

// EventPublisher broadcasts shipment updates. Satisfied by events.Publisher.
type EventPublisher interface {
	PublishShipmentUpdate(view *model.ShipmentView) error
}

type ShipmentService struct {
	shipmentRepo  ShipmentRepository
	historyRepo   StatusHistoryRepository
	userRepo      UserRepository
	driverRepo    DriverRepository
	routeRepo     RouteRepository
	cache         ViewCache
	publisher     EventPublisher
	notifications NotificationQueue
}

func NewShipmentService(
	shipmentRepo ShipmentRepository,
	historyRepo StatusHistoryRepository,
	userRepo UserRepository,
	driverRepo DriverRepository,
	routeRepo RouteRepository,
	viewCache ViewCache,
	publisher EventPublisher,
	notifications NotificationQueue,
) *ShipmentService {
	return &ShipmentService{
		shipmentRepo:  shipmentRepo,
		historyRepo:   historyRepo,
		userRepo:      userRepo,
		driverRepo:    driverRepo,
		routeRepo:     routeRepo,
		cache:         viewCache,
		publisher:     publisher,
		notifications: notifications,
	}
}

// Create stores the shipment and its initial history entry atomically.
func (s *ShipmentService) Create(ctx context.Context, p model.ShipmentCreateRequest) (*model.Shipment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	owner, err := s.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	m := &model.Shipment{
		ID:          uuid.NewString(),
		Weight:      p.Weight,
		Dimensions:  p.Dimensions,
		ProductType: p.ProductType,
		Destination: p.Destination,
		UserID:      owner.ID,
		Status:      model.ShipmentPending,
	}

	var created *model.Shipment
	err = s.shipmentRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.shipmentRepo.Create(ctx, m)
		if err != nil {
			return fmt.Errorf("create shipment: %w", err)
		}
		created = c

		_, err = s.historyRepo.Create(ctx, &model.StatusHistory{
			ShipmentID:      created.ID,
			NewStatus:       model.ShipmentPending,
			ChangedByUserID: &owner.ID,
		})
		if err != nil {
			return fmt.Errorf("create history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateStatus moves the shipment through the status graph. The write and
// the history append commit in one transaction; concurrent writers are
// retried with exponential backoff.
func (s *ShipmentService) UpdateStatus(ctx context.Context, id string, next model.ShipmentStatus, changedBy *int64) (*model.ShipmentView, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	const maxRetries = 3
	const baseDelay = 2 * time.Millisecond

	var prev model.ShipmentStatus
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = s.shipmentRepo.WithinTransaction(ctx, func(ctx context.Context) error {
			p, err := s.shipmentRepo.UpdateStatus(ctx, id, next)
			if err != nil {
				return err
			}
			prev = p

			_, err = s.historyRepo.Create(ctx, &model.StatusHistory{
				ShipmentID:      id,
				PreviousStatus:  &p,
				NewStatus:       next,
				ChangedByUserID: changedBy,
			})
			if err != nil {
				return fmt.Errorf("create history: %w", err)
			}
			return nil
		})

		if lastErr == nil {
			break
		}

		if errors.Is(lastErr, repository.ErrShipmentNotFound) {
			return nil, ErrShipmentNotFound
		}
		if errors.Is(lastErr, repository.ErrInvalidTransition) {
			return nil, ErrInvalidTransition
		}

		// Only the lost version race is worth retrying; everything else is
		// permanent and must keep its cause.
		if !errors.Is(lastErr, repository.ErrConcurrentUpdate) {
			return nil, fmt.Errorf("update status: %w", lastErr)
		}

		if attempt < maxRetries {
			delay := baseDelay * time.Duration(1<<attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: failed after %d attempts", repository.ErrMaxRetriesExceeded, maxRetries+1)
	}

	prom.IncShipmentStatusTransition(string(prev), string(next))

	view := s.refreshView(ctx, id)
	if view != nil && next == model.ShipmentDelivered && view.User != nil {
		s.enqueueEmail(ctx, &model.EmailJob{
			Kind:        model.EmailShipmentDelivered,
			To:          view.User.Email,
			Name:        view.User.Name,
			ShipmentID:  id,
			Destination: view.Destination,
		})
	}
	if view == nil {
		return nil, ErrShipmentNotFound
	}
	return view, nil
}

// AssignDriverAndRoute is the permissive assignment path: it validates that
// the driver and route exist but deliberately skips availability checks.
// The strict workflow lives in AssignmentService.
func (s *ShipmentService) AssignDriverAndRoute(ctx context.Context, id string, driverID, routeID int64) (*model.ShipmentView, error) {
	driver, err := s.driverRepo.FindByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrDriverNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, fmt.Errorf("lookup driver: %w", err)
	}

	if _, err := s.routeRepo.FindByID(ctx, routeID); err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("lookup route: %w", err)
	}

	if err := s.shipmentRepo.AssignDriverAndRoute(ctx, id, driverID, routeID); err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, fmt.Errorf("assign driver: %w", err)
	}

	view := s.refreshView(ctx, id)
	if view == nil {
		return nil, ErrShipmentNotFound
	}

	if driverUser, err := s.userRepo.FindByID(ctx, driver.UserID); err == nil {
		s.enqueueEmail(ctx, &model.EmailJob{
			Kind:        model.EmailShipmentAssigned,
			To:          driverUser.Email,
			Name:        driverUser.Name,
			ShipmentID:  id,
			Destination: view.Destination,
		})
	}

	return view, nil
}

// Find returns the denormalized view, reading through the cache.
func (s *ShipmentService) Find(ctx context.Context, id string) (*model.ShipmentView, error) {
	if s.cache != nil {
		if view, ok := s.cache.GetView(id); ok {
			prom.IncCacheRequest("hit")
			return view, nil
		}
		prom.IncCacheRequest("miss")
	}

	view, err := s.loadView(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetView(view)
	}
	return view, nil
}

func (s *ShipmentService) FindByUserID(ctx context.Context, userID int64) ([]*model.Shipment, error) {
	return s.shipmentRepo.FindByUserID(ctx, userID)
}

func (s *ShipmentService) FindAll(ctx context.Context) ([]*model.Shipment, error) {
	return s.shipmentRepo.FindAll(ctx)
}

// GetStatusHistory returns the audit trail, newest first.
func (s *ShipmentService) GetStatusHistory(ctx context.Context, id string) ([]*model.StatusHistory, error) {
	if _, err := s.shipmentRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	return s.historyRepo.FindByShipmentID(ctx, id)
}

// GetShipmentsWithAdvancedFilters serves the filtered listing through the
// fingerprinted list cache. Entries expire by TTL only; a stale page after
// a write is acceptable for this endpoint.
func (s *ShipmentService) GetShipmentsWithAdvancedFilters(ctx context.Context, f model.ShipmentFilter) ([]*model.ShipmentListItem, int64, error) {
	f.Normalize()

	var key string
	if s.cache != nil {
		key = cache.ListKey(f)
		if items, total, ok := s.cache.GetList(key); ok {
			prom.IncCacheRequest("hit")
			return items, total, nil
		}
		prom.IncCacheRequest("miss")
	}

	items, total, err := s.shipmentRepo.FindWithAdvancedFilters(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if s.cache != nil {
		s.cache.SetList(key, items, total)
	}
	return items, total, nil
}

// GetShipmentsWithMetrics serves the aggregation through the same
// fingerprinted cache as the listing; entries age out by TTL.
func (s *ShipmentService) GetShipmentsWithMetrics(ctx context.Context, f model.MetricsFilter) (*model.ShipmentMetrics, error) {
	var key string
	if s.cache != nil {
		key = cache.MetricsKey(f)
		if metrics, ok := s.cache.GetMetrics(key); ok {
			prom.IncCacheRequest("hit")
			return metrics, nil
		}
		prom.IncCacheRequest("miss")
	}

	metrics, err := s.shipmentRepo.GetPerformanceMetrics(ctx, f)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetMetrics(key, metrics)
	}
	return metrics, nil
}

// loadView assembles the denormalized read model from its parts.
func (s *ShipmentService) loadView(ctx context.Context, id string) (*model.ShipmentView, error) {
	shipment, err := s.shipmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}

	history, err := s.historyRepo.FindByShipmentID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	view := &model.ShipmentView{
		Shipment: *shipment,
		History:  history,
	}

	if owner, err := s.userRepo.FindByID(ctx, shipment.UserID); err == nil {
		owner.Password = ""
		view.User = owner
	}

	if shipment.DriverID != nil {
		if driver, err := s.driverRepo.FindByID(ctx, *shipment.DriverID); err == nil {
			if driverUser, err := s.userRepo.FindByID(ctx, driver.UserID); err == nil {
				driverUser.Password = ""
				driver.User = driverUser
			}
			view.Driver = driver
		}
	}

	if shipment.RouteID != nil {
		if route, err := s.routeRepo.FindByID(ctx, *shipment.RouteID); err == nil {
			view.Route = route
		}
	}

	return view, nil
}

// refreshView invalidates, reloads and rebroadcasts after a mutation.
// Failures here never fail the write; the database already committed.
func (s *ShipmentService) refreshView(ctx context.Context, id string) *model.ShipmentView {
	if s.cache != nil {
		s.cache.InvalidateView(id)
	}

	view, err := s.loadView(ctx, id)
	if err != nil {
		logger.Warn("failed to reload shipment view", "shipment_id", id, "error", err.Error())
		return nil
	}

	if s.cache != nil {
		s.cache.SetView(view)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishShipmentUpdate(view); err != nil {
			logger.Warn("failed to publish shipment update", "shipment_id", id, "error", err.Error())
		}
	}
	return view
}

func (s *ShipmentService) enqueueEmail(ctx context.Context, job *model.EmailJob) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.PublishJSON(ctx, job, nil); err != nil {
		logger.Warn("failed to enqueue email", "kind", string(job.Kind), "to", job.To, "error", err.Error())
	}
}
