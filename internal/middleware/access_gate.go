package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/auth"

	log "github.com/sirupsen/logrus"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

type RouteClass int

const (
	RouteClassPublic RouteClass = iota
	RouteClassProtected
	RouteClassAuthOnly
)

func (c RouteClass) String() string {
	switch c {
	case RouteClassProtected:
		return "protected"
	case RouteClassAuthOnly:
		return "auth-only"
	default:
		return "public"
	}
}

var (
	protectedPrefixes = []string{"/dashboard", "/workouts", "/analytics", "/profile", "/goals", "/settings"}
	authOnlyPrefixes  = []string{"/login", "/register"}
)

// TokenState is what the gate knows about the session of a page request.
type TokenState int

const (
	TokenAbsent TokenState = iota
	TokenValid
	TokenInvalid
)

// GateDecision is the outcome of evaluating a page request. An empty RedirectTo means proceed.
type GateDecision struct {
	RedirectTo  string
	ClearCookie bool
}

func (d GateDecision) Proceeds() bool {
	return d.RedirectTo == ""
}

func hasPathPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// ClassifyPath matches path against the static prefix lists. "/workouts/new" is protected,
// "/workoutsfoo" is not.
func ClassifyPath(path string) RouteClass {
	switch {
	case hasPathPrefix(path, protectedPrefixes):
		return RouteClassProtected
	case hasPathPrefix(path, authOnlyPrefixes):
		return RouteClassAuthOnly
	default:
		return RouteClassPublic
	}
}

// EvaluateGate decides what happens to a page request given its path and session state.
func EvaluateGate(path string, state TokenState) GateDecision {
	class := ClassifyPath(path)
	switch {
	case class == RouteClassProtected && state == TokenAbsent:
		return GateDecision{RedirectTo: LoginPath + "?" + url.Values{"from": []string{path}}.Encode()}
	case class == RouteClassProtected && state == TokenInvalid:
		return GateDecision{RedirectTo: LoginPath, ClearCookie: true}
	case class == RouteClassAuthOnly && state == TokenValid:
		return GateDecision{RedirectTo: DashboardPath}
	default:
		return GateDecision{}
	}
}

// AccessGate applies EvaluateGate to page (non /api) requests.
func AccessGate(tokenVerifier tokenVerifier, secureCookies bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api" {
				next.ServeHTTP(w, r)
				return
			}

			state := TokenAbsent
			if token, found := auth.TokenFromRequest(r); found {
				if _, err := tokenVerifier.Verify(token); err != nil {
					state = TokenInvalid
				} else {
					state = TokenValid
				}
			}

			decision := EvaluateGate(r.URL.Path, state)
			if decision.Proceeds() {
				next.ServeHTTP(w, r)
				return
			}

			log.Tracef("[access gate] %s => %s", r.URL.Path, decision.RedirectTo)
			if decision.ClearCookie {
				auth.ClearSessionCookie(w, secureCookies)
			}
			http.Redirect(w, r, decision.RedirectTo, http.StatusTemporaryRedirect)
		})
	}
}
