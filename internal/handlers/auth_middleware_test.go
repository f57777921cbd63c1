package handlers

import (
	"testing"
	"time"

	"github.com/openfleet/shipping-gateway/internal/auth"
	"github.com/openfleet/shipping-gateway/internal/model"
	xhttp "github.com/openfleet/shipping-gateway/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueToken(t *testing.T, manager *auth.Manager, role model.UserRole) string {
	t.Helper()
	token, err := manager.Issue(&model.User{ID: 7, Email: "ana@example.com", Role: role})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	manager := auth.NewManager("test-secret", time.Hour)
	middleware := NewAuthMiddleware(manager)

	t.Run("missing header", func(t *testing.T) {
		called := false
		handler := middleware.Authenticate(func(ctx *xhttp.RequestCtx) { called = true })

		ctx := setupTestContext("GET", "/shipments", nil)
		handler(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
		assert.False(t, called)
	})

	t.Run("garbage token", func(t *testing.T) {
		called := false
		handler := middleware.Authenticate(func(ctx *xhttp.RequestCtx) { called = true })

		ctx := setupTestContext("GET", "/shipments", nil)
		ctx.Request.Header.Set("Authorization", "Bearer not.a.token")
		handler(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
		assert.False(t, called)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewManager("other-secret", time.Hour)
		handler := middleware.Authenticate(func(ctx *xhttp.RequestCtx) {
			t.Fatal("handler should not run")
		})

		ctx := setupTestContext("GET", "/shipments", nil)
		ctx.Request.Header.Set("Authorization", "Bearer "+issueToken(t, other, model.RoleUser))
		handler(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
	})

	t.Run("valid token exposes claims", func(t *testing.T) {
		var claims *auth.Claims
		handler := middleware.Authenticate(func(ctx *xhttp.RequestCtx) {
			claims = ClaimsFrom(ctx)
		})

		ctx := setupTestContext("GET", "/shipments", nil)
		ctx.Request.Header.Set("Authorization", "Bearer "+issueToken(t, manager, model.RoleDriver))
		handler(ctx)

		require.NotNil(t, claims)
		assert.Equal(t, int64(7), claims.UserID)
		assert.Equal(t, model.RoleDriver, claims.Role)
	})
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	manager := auth.NewManager("test-secret", time.Hour)
	middleware := NewAuthMiddleware(manager)

	t.Run("wrong role is forbidden", func(t *testing.T) {
		called := false
		handler := middleware.RequireRole(model.RoleAdmin, func(ctx *xhttp.RequestCtx) { called = true })

		ctx := setupTestContext("GET", "/drivers", nil)
		ctx.Request.Header.Set("Authorization", "Bearer "+issueToken(t, manager, model.RoleUser))
		handler(ctx)

		assert.Equal(t, 403, ctx.Response.StatusCode())
		assert.False(t, called)
	})

	t.Run("matching role passes", func(t *testing.T) {
		called := false
		handler := middleware.RequireRole(model.RoleAdmin, func(ctx *xhttp.RequestCtx) { called = true })

		ctx := setupTestContext("GET", "/drivers", nil)
		ctx.Request.Header.Set("Authorization", "Bearer "+issueToken(t, manager, model.RoleAdmin))
		handler(ctx)

		assert.True(t, called)
	})

	t.Run("any of several roles passes", func(t *testing.T) {
		called := false
		handler := middleware.RequireAnyRole(func(ctx *xhttp.RequestCtx) { called = true },
			model.RoleAdmin, model.RoleDriver)

		ctx := setupTestContext("PATCH", "/drivers/1/status", nil)
		ctx.Request.Header.Set("Authorization", "Bearer "+issueToken(t, manager, model.RoleDriver))
		handler(ctx)

		assert.True(t, called)
	})
}
