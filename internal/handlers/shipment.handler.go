package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/internal/repository"
	"github.com/openfleet/shipping-gateway/internal/services"
	xhttp "github.com/openfleet/shipping-gateway/pkg/http"
	"github.com/openfleet/shipping-gateway/pkg/logger"
)

type ShipmentService interface {
	Create(ctx context.Context, p model.ShipmentCreateRequest) (*model.Shipment, error)
	Find(ctx context.Context, id string) (*model.ShipmentView, error)
	FindAll(ctx context.Context) ([]*model.Shipment, error)
	FindByUserID(ctx context.Context, userID int64) ([]*model.Shipment, error)
	UpdateStatus(ctx context.Context, id string, next model.ShipmentStatus, changedBy *int64) (*model.ShipmentView, error)
	AssignDriverAndRoute(ctx context.Context, id string, driverID, routeID int64) (*model.ShipmentView, error)
	GetStatusHistory(ctx context.Context, id string) ([]*model.StatusHistory, error)
	GetShipmentsWithAdvancedFilters(ctx context.Context, f model.ShipmentFilter) ([]*model.ShipmentListItem, int64, error)
	GetShipmentsWithMetrics(ctx context.Context, f model.MetricsFilter) (*model.ShipmentMetrics, error)
}

type ShipmentHandler struct {
	svc ShipmentService
}

func RegisterShipmentRoutes(e *router.Group, h *ShipmentHandler, a *AuthMiddleware) {
	e.POST("/shipments", a.Authenticate(h.CreateShipment))
	e.GET("/shipments", a.Authenticate(h.ListShipments))
	e.GET("/shipments/filter", a.RequireRole(model.RoleAdmin, h.ListWithFilters))
	e.GET("/shipments/metrics", a.RequireRole(model.RoleAdmin, h.GetMetrics))
	e.GET("/shipments/{id}", a.Authenticate(h.GetShipment))
	e.GET("/shipments/{id}/history", a.Authenticate(h.GetHistory))
	e.PATCH("/shipments/{id}/status", a.Authenticate(h.UpdateStatus))
	e.POST("/shipments/{id}/assign", a.RequireRole(model.RoleAdmin, h.AssignDriver))
}

func NewShipmentHandler(shipmentService ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{
		svc: shipmentService,
	}
}

type createShipmentRequest struct {
	Weight      float64 `json:"weight"`
	Dimensions  string  `json:"dimensions"`
	ProductType string  `json:"product_type"`
	Destination string  `json:"destination"`
}

type updateShipmentStatusRequest struct {
	Status model.ShipmentStatus `json:"status"`
}

type assignDriverRequest struct {
	DriverID int64 `json:"driver_id"`
	RouteID  int64 `json:"route_id"`
}

type shipmentListResponse struct {
	Items []*model.Shipment `json:"items"`
	Total int64             `json:"total"`
}

type filteredListResponse struct {
	Items []*model.ShipmentListItem `json:"items"`
	Total int64                     `json:"total"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *ShipmentHandler) CreateShipment(ctx *xhttp.RequestCtx) {
	var req createShipmentRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	claims := ClaimsFrom(ctx)
	p := model.ShipmentCreateRequest{
		UserID:      claims.UserID,
		Weight:      req.Weight,
		Dimensions:  req.Dimensions,
		ProductType: req.ProductType,
		Destination: req.Destination,
	}
	shipment, err := h.svc.Create(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, shipment)
}

func (h *ShipmentHandler) ListShipments(ctx *xhttp.RequestCtx) {
	claims := ClaimsFrom(ctx)

	var (
		items []*model.Shipment
		err   error
	)
	if claims.Role == model.RoleAdmin {
		items, err = h.svc.FindAll(ctx)
	} else {
		items, err = h.svc.FindByUserID(ctx, claims.UserID)
	}
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, shipmentListResponse{Items: items, Total: int64(len(items))})
}

func (h *ShipmentHandler) GetShipment(ctx *xhttp.RequestCtx) {
	view, err := h.svc.Find(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, view)
}

func (h *ShipmentHandler) GetHistory(ctx *xhttp.RequestCtx) {
	history, err := h.svc.GetStatusHistory(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, history)
}

func (h *ShipmentHandler) UpdateStatus(ctx *xhttp.RequestCtx) {
	var req updateShipmentStatusRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	claims := ClaimsFrom(ctx)
	view, err := h.svc.UpdateStatus(ctx, param(ctx, "id"), req.Status, &claims.UserID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, view)
}

func (h *ShipmentHandler) AssignDriver(ctx *xhttp.RequestCtx) {
	var req assignDriverRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	view, err := h.svc.AssignDriverAndRoute(ctx, param(ctx, "id"), req.DriverID, req.RouteID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, view)
}

func (h *ShipmentHandler) ListWithFilters(ctx *xhttp.RequestCtx) {
	var f model.ShipmentFilter

	if v := query(ctx, "start_date"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.StartDate = &t
		}
	}
	if v := query(ctx, "end_date"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.EndDate = &t
		}
	}
	if v := query(ctx, "status"); v != "" {
		status := model.ShipmentStatus(v)
		if !status.Valid() {
			writeError(ctx, 400, "invalid status filter")
			return
		}
		f.Status = &status
	}
	if v := query(ctx, "driver_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			f.DriverID = &id
		}
	}
	if v := query(ctx, "page"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Page = n
		}
	}
	if v := query(ctx, "limit"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Limit = n
		}
	}

	items, total, err := h.svc.GetShipmentsWithAdvancedFilters(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, filteredListResponse{Items: items, Total: total})
}

func (h *ShipmentHandler) GetMetrics(ctx *xhttp.RequestCtx) {
	var f model.MetricsFilter

	if v := query(ctx, "start_date"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.StartDate = &t
		}
	}
	if v := query(ctx, "end_date"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.EndDate = &t
		}
	}

	metrics, err := h.svc.GetShipmentsWithMetrics(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, metrics)
}

/* --------------------------------- Helpers ----------------------------------- */

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps service sentinels to status codes. Anything
// unrecognized is an infrastructure failure: logged and reported as 500.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, services.ErrShipmentNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrDriverNotFound),
		errors.Is(err, services.ErrRouteNotFound),
		errors.Is(err, services.ErrAssignmentNotFound):
		writeError(ctx, 404, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(ctx, 401, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrDriverUnavailable),
		errors.Is(err, services.ErrDriverBooked),
		errors.Is(err, services.ErrOverCapacity),
		errors.Is(err, repository.ErrMaxRetriesExceeded):
		writeError(ctx, 409, err.Error())
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidAssignment),
		errors.Is(err, services.ErrInvalidDriverStatus):
		writeError(ctx, 400, err.Error())
	default:
		logger.Error("unhandled service error",
			"component", "handlers",
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"error", err.Error())
		writeError(ctx, 500, "internal server error")
	}
}

func param(ctx *xhttp.RequestCtx, name string) string {
	v, _ := ctx.UserValue(name).(string)
	return v
}

func paramInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	return strconv.ParseInt(param(ctx, name), 10, 64)
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
