package users

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/auth"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/metrics"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"
	"github.com/NutthakitPatike/Project-Fitness-app/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=auth_handler_mocks_test.go -package=users_test

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

type tokenIssuer interface {
	Issue(userID, email string) (string, error)
	TTL() time.Duration
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	Message string `json:"message,omitempty"`
	User    *User  `json:"user"`
}

type LoginResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}

type AuthHandler struct {
	repo           usersRepo
	tokens         tokenIssuer
	metricsManager *metrics.Manager
	secureCookies  bool
}

func NewAuthHandler(
	repo usersRepo,
	tokens tokenIssuer,
	metricsManager *metrics.Manager,
	secureCookies bool,
) *AuthHandler {
	return &AuthHandler{
		repo:           repo,
		tokens:         tokens,
		metricsManager: metricsManager,
		secureCookies:  secureCookies,
	}
}

// SetupRoutes registers the session routes. Register and login go on limited, the router
// behind the login rate limiter.
func (handler *AuthHandler) SetupRoutes(r, limited *mux.Router) {
	limited.HandleFunc("/api/auth/register", handler.HandleRegister).Methods("POST", "OPTIONS").Name("register")
	limited.HandleFunc("/api/auth/login", handler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	r.HandleFunc("/api/auth/logout", handler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")
	r.HandleFunc("/api/auth/me", handler.HandleMe).Methods("GET", "OPTIONS").Name("me")
}

func (handler *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.register")
	defer span.End()

	var req registerRequest
	if details := pkg.DecodeJSON(r, &req); details != nil {
		pkg.WriteValidationErrorResponse(w, details)
		return
	}
	req.Username = NormalizeUsername(req.Username)
	req.Email = NormalizeEmail(req.Email)
	if details := pkg.Validate(req); details != nil {
		log.Tracef("register, invalid input: %+v", details)
		pkg.WriteValidationErrorResponse(w, details)
		return
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		log.Errorf("register, hash password: %s", err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	user, err := handler.repo.Add(ctx, User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			pkg.WriteErrorResponse(w, http.StatusConflict, pkg.MsgDuplicateUser)
			return
		}
		log.Errorf("register user %s: %s", req.Username, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterRegistrations.Inc()
	}
	span.SetAttributes(attribute.String("user.id", user.ID))
	log.Infof("new user registered: %s", user.ID)

	pkg.WriteJSONResponse(w, http.StatusCreated, UserResponse{
		Message: "สมัครสมาชิกสำเร็จ",
		User:    user,
	})
}

func (handler *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	var req loginRequest
	if details := pkg.DecodeJSON(r, &req); details != nil {
		pkg.WriteValidationErrorResponse(w, details)
		return
	}
	req.Email = NormalizeEmail(req.Email)
	if details := pkg.Validate(req); details != nil {
		pkg.WriteValidationErrorResponse(w, details)
		return
	}

	user, err := handler.repo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		log.Errorf("login, get user by email: %s", err)
		pkg.WriteInternalErrorResponse(w)
		return
	}
	// unknown email and wrong password look the same to the caller
	if user == nil || !pkg.CheckPasswordHash(req.Password, user.PasswordHash) {
		handler.countLogin("failed")
		log.Tracef("login failed for: %s", req.Email)
		pkg.WriteUnauthorizedResponse(w, pkg.MsgWrongCredentials)
		return
	}

	token, err := handler.tokens.Issue(user.ID, user.Email)
	if err != nil {
		log.Errorf("login, issue token for %s: %s", user.ID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	handler.countLogin("success")
	auth.SetSessionCookie(w, token, handler.tokens.TTL(), handler.secureCookies)
	pkg.WriteJSONResponseOK(w, LoginResponse{
		Message: "เข้าสู่ระบบสำเร็จ",
		User:    user,
		Token:   token,
	})
}

func (handler *AuthHandler) HandleLogout(w http.ResponseWriter, _ *http.Request) {
	auth.ClearSessionCookie(w, handler.secureCookies)
	pkg.WriteJSONResponseOK(w, pkg.MessageResponse{Message: "ออกจากระบบสำเร็จ"})
}

func (handler *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.me")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	user, err := handler.repo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			pkg.WriteNotFoundResponse(w, pkg.MsgUserNotFound)
			return
		}
		log.Errorf("me, get user %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	pkg.WriteJSONResponseOK(w, UserResponse{User: user})
}

func (handler *AuthHandler) countLogin(result string) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterLogins.WithLabelValues(result).Inc()
	}
}
