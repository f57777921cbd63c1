package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/openfleet/shipping-gateway/internal/model"
	xhttp "github.com/openfleet/shipping-gateway/pkg/http"
)

type AssignmentService interface {
	Create(ctx context.Context, p model.AssignmentCreateRequest) (*model.Assignment, error)
	Find(ctx context.Context, id int64) (*model.Assignment, error)
	UpdateStatus(ctx context.Context, id int64, status model.AssignmentStatus) (*model.Assignment, error)
	FindAllWithDetails(ctx context.Context, status *model.AssignmentStatus) ([]*model.AssignmentDetail, error)
}

type AssignmentHandler struct {
	svc AssignmentService
}

func RegisterAssignmentRoutes(e *router.Group, h *AssignmentHandler, a *AuthMiddleware) {
	e.POST("/assignments", a.RequireRole(model.RoleAdmin, h.CreateAssignment))
	e.GET("/assignments", a.RequireRole(model.RoleAdmin, h.ListAssignments))
	e.GET("/assignments/{id}", a.Authenticate(h.GetAssignment))
	e.PATCH("/assignments/{id}/status", a.RequireAnyRole(h.UpdateStatus, model.RoleAdmin, model.RoleDriver))
}

func NewAssignmentHandler(assignmentService AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		svc: assignmentService,
	}
}

type updateAssignmentStatusRequest struct {
	Status model.AssignmentStatus `json:"status"`
}

type assignmentListResponse struct {
	Items []*model.AssignmentDetail `json:"items"`
	Total int64                     `json:"total"`
}

func (h *AssignmentHandler) CreateAssignment(ctx *xhttp.RequestCtx) {
	var req model.AssignmentCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	assignment, err := h.svc.Create(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, assignment)
}

func (h *AssignmentHandler) ListAssignments(ctx *xhttp.RequestCtx) {
	var status *model.AssignmentStatus
	if raw := query(ctx, "status"); raw != "" {
		s := model.AssignmentStatus(raw)
		if !s.Valid() {
			writeError(ctx, 400, "invalid status filter")
			return
		}
		status = &s
	}

	items, err := h.svc.FindAllWithDetails(ctx, status)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, assignmentListResponse{Items: items, Total: int64(len(items))})
}

func (h *AssignmentHandler) GetAssignment(ctx *xhttp.RequestCtx) {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid assignment id")
		return
	}

	assignment, err := h.svc.Find(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, assignment)
}

func (h *AssignmentHandler) UpdateStatus(ctx *xhttp.RequestCtx) {
	id, err := paramInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid assignment id")
		return
	}

	var req updateAssignmentStatusRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	assignment, err := h.svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, assignment)
}
