package middleware

import (
	"net/http"
	"strings"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/auth"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"
	"github.com/NutthakitPatike/Project-Fitness-app/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type tokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// AuthMiddlewareHandler guards the /api routes. Page routes are left to the AccessGate.
type AuthMiddlewareHandler struct {
	tokenVerifier        tokenVerifier
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(tokenVerifier tokenVerifier) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		tokenVerifier: tokenVerifier,
		allowedPaths: map[string]bool{
			"/api/auth/register": true,
			"/api/auth/login":    true,
			"/api/auth/logout":   true,
		},
		allowedPathsPrefixes: []string{
			"/api/health",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if !strings.HasPrefix(path, "/api/") {
		return true
	}
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if h.pathIsAlwaysAllowed(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			token, found := auth.TokenFromRequest(r)
			if !found {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			identity, err := h.tokenVerifier.Verify(token)
			if err != nil {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s: %s", r.URL.Path, err)
				pkg.WriteUnauthorizedResponse(w, pkg.MsgInvalidToken)
				span.SetStatus(codes.Error, "invalid-token")
				return
			}

			span.SetAttributes(attribute.String("user.id", identity.UserID))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.NewContext(ctx, identity)))
		})
	}
}
