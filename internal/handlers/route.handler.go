package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/openfleet/shipping-gateway/internal/model"
	xhttp "github.com/openfleet/shipping-gateway/pkg/http"
)

type RouteService interface {
	Create(ctx context.Context, p model.RouteCreateRequest) (*model.Route, error)
	Find(ctx context.Context, id int64) (*model.Route, error)
	FindAll(ctx context.Context) ([]*model.Route, error)
}

type RouteHandler struct {
	svc RouteService
}

func RegisterRouteRoutes(e *router.Group, h *RouteHandler, a *AuthMiddleware) {
	e.POST("/routes", a.RequireRole(model.RoleAdmin, h.CreateRoute))
	e.GET("/routes", a.Authenticate(h.ListRoutes))
	e.GET("/routes/{id}", a.Authenticate(h.GetRoute))
}

func NewRouteHandler(routeService RouteService) *RouteHandler {
	return &RouteHandler{
		svc: routeService,
	}
}

type routeListResponse struct {
	Items []*model.Route `json:"items"`
	Total int64          `json:"total"`
}

func (h *RouteHandler) CreateRoute(ctx *xhttp.RequestCtx) {
	var req model.RouteCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	route, err := h.svc.Create(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, route)
}

func (h *RouteHandler) ListRoutes(ctx *xhttp.RequestCtx) {
	items, err := h.svc.FindAll(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, routeListResponse{Items: items, Total: int64(len(items))})
}

func (h *RouteHandler) GetRoute(ctx *xhttp.RequestCtx) {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid route id")
		return
	}

	route, err := h.svc.Find(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, route)
}
