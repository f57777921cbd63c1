package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/openfleet/shipping-gateway/internal/model"
	xhttp "github.com/openfleet/shipping-gateway/pkg/http"
)

type UserService interface {
	Register(ctx context.Context, p model.UserCreateRequest) (*model.TokenResponse, error)
	Login(ctx context.Context, p model.LoginRequest) (*model.TokenResponse, error)
	Find(ctx context.Context, id int64) (*model.User, error)
}

type UserHandler struct {
	svc UserService
}

func RegisterUserRoutes(e *router.Group, h *UserHandler, a *AuthMiddleware) {
	e.POST("/users/register", h.Register)
	e.POST("/users/login", h.Login)
	e.GET("/users/me", a.Authenticate(h.Me))
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		svc: userService,
	}
}

func (h *UserHandler) Register(ctx *xhttp.RequestCtx) {
	var req model.UserCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	// Role is assigned by admins elsewhere; self-registration is always a
	// plain user account.
	req.Role = model.RoleUser

	result, err := h.svc.Register(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, result)
}

func (h *UserHandler) Login(ctx *xhttp.RequestCtx) {
	var req model.LoginRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	result, err := h.svc.Login(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, result)
}

func (h *UserHandler) Me(ctx *xhttp.RequestCtx) {
	claims := ClaimsFrom(ctx)
	user, err := h.svc.Find(ctx, claims.UserID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, user)
}
