package handlers

import (
	"strings"

	"github.com/openfleet/shipping-gateway/internal/auth"
	"github.com/openfleet/shipping-gateway/internal/model"
	xhttp "github.com/openfleet/shipping-gateway/pkg/http"
)

const claimsKey = "auth_claims"

// AuthMiddleware guards routes with bearer-token auth. Role checks read the
// role straight from the verified claims, no user lookup needed.
type AuthMiddleware struct {
	tokens *auth.Manager
}

func NewAuthMiddleware(tokens *auth.Manager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (a *AuthMiddleware) Authenticate(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		header := string(ctx.Request.Header.Peek("Authorization"))
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			writeError(ctx, 401, "missing bearer token")
			return
		}

		claims, err := a.tokens.Parse(strings.TrimPrefix(header, prefix))
		if err != nil {
			writeError(ctx, 401, err.Error())
			return
		}

		ctx.SetUserValue(claimsKey, claims)
		next(ctx)
	}
}

func (a *AuthMiddleware) RequireRole(role model.UserRole, next xhttp.RequestHandler) xhttp.RequestHandler {
	return a.RequireAnyRole(next, role)
}

func (a *AuthMiddleware) RequireAnyRole(next xhttp.RequestHandler, roles ...model.UserRole) xhttp.RequestHandler {
	return a.Authenticate(func(ctx *xhttp.RequestCtx) {
		claims := ClaimsFrom(ctx)
		for _, role := range roles {
			if claims != nil && claims.Role == role {
				next(ctx)
				return
			}
		}
		writeError(ctx, 403, "insufficient role")
	})
}

// ClaimsFrom returns the verified token claims, or nil on unauthenticated
// routes.
func ClaimsFrom(ctx *xhttp.RequestCtx) *auth.Claims {
	claims, _ := ctx.UserValue(claimsKey).(*auth.Claims)
	return claims
}
