package services

import (
	"context"
	"errors"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/internal/repository"
)

type RouteService struct {
	routeRepo RouteRepository
}

func NewRouteService(routeRepo RouteRepository) *RouteService {
	return &RouteService{routeRepo: routeRepo}
}

func (s *RouteService) Create(ctx context.Context, p model.RouteCreateRequest) (*model.Route, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.routeRepo.Create(ctx, &model.Route{
		Name:          p.Name,
		Origin:        p.Origin,
		Destination:   p.Destination,
		Distance:      p.Distance,
		EstimatedTime: p.EstimatedTime,
	})
}

func (s *RouteService) Find(ctx context.Context, id int64) (*model.Route, error) {
	route, err := s.routeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return route, nil
}

func (s *RouteService) FindAll(ctx context.Context) ([]*model.Route, error) {
	return s.routeRepo.FindAll(ctx)
}
