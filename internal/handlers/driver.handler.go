package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/openfleet/shipping-gateway/internal/model"
	xhttp "github.com/openfleet/shipping-gateway/pkg/http"
)

type DriverService interface {
	Find(ctx context.Context, id int64) (*model.Driver, error)
	FindAll(ctx context.Context) ([]*model.Driver, error)
	FindAvailable(ctx context.Context) ([]*model.Driver, error)
	UpdateStatus(ctx context.Context, id int64, status model.DriverStatus) (*model.Driver, error)
}

type DriverHandler struct {
	svc DriverService
}

func RegisterDriverRoutes(e *router.Group, h *DriverHandler, a *AuthMiddleware) {
	e.GET("/drivers", a.RequireRole(model.RoleAdmin, h.ListDrivers))
	e.GET("/drivers/available", a.RequireRole(model.RoleAdmin, h.ListAvailable))
	e.GET("/drivers/{id}", a.Authenticate(h.GetDriver))
	e.PATCH("/drivers/{id}/status", a.RequireAnyRole(h.UpdateStatus, model.RoleAdmin, model.RoleDriver))
}

func NewDriverHandler(driverService DriverService) *DriverHandler {
	return &DriverHandler{
		svc: driverService,
	}
}

type updateDriverStatusRequest struct {
	Status model.DriverStatus `json:"status"`
}

type driverListResponse struct {
	Items []*model.Driver `json:"items"`
	Total int64           `json:"total"`
}

func (h *DriverHandler) ListDrivers(ctx *xhttp.RequestCtx) {
	items, err := h.svc.FindAll(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, driverListResponse{Items: items, Total: int64(len(items))})
}

func (h *DriverHandler) ListAvailable(ctx *xhttp.RequestCtx) {
	items, err := h.svc.FindAvailable(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, driverListResponse{Items: items, Total: int64(len(items))})
}

func (h *DriverHandler) GetDriver(ctx *xhttp.RequestCtx) {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid driver id")
		return
	}

	driver, err := h.svc.Find(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, driver)
}

func (h *DriverHandler) UpdateStatus(ctx *xhttp.RequestCtx) {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid driver id")
		return
	}

	var req updateDriverStatusRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	driver, err := h.svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, driver)
}
