package settings

import (
	"context"
	"errors"
	"net/http"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/auth"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/users"
	"github.com/NutthakitPatike/Project-Fitness-app/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=settings_mocks_test.go -package=settings_test

type usersRepo interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

type SettingsResponse struct {
	Settings Settings `json:"settings"`
}

type UpdateResponse struct {
	Message  string `json:"message"`
	Settings Update `json:"settings"`
}

type Handler struct {
	repo usersRepo
}

func NewHandler(repo usersRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/settings", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-settings")
	r.HandleFunc("/api/settings", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-settings")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.settings.get")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	user, err := handler.repo.GetByID(ctx, identity.UserID)
	if errors.Is(err, users.ErrUserNotFound) {
		pkg.WriteNotFoundResponse(w, pkg.MsgUserNotFound)
		return
	} else if err != nil {
		log.Errorf("get settings, get user %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	pkg.WriteJSONResponseOK(w, SettingsResponse{Settings: Defaults(user.ID)})
}

// HandleUpdate validates the submitted settings and echoes them back.
// TODO: store settings once there is a settings table; until then GET keeps returning defaults.
func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.settings.update")
	defer span.End()

	if _, ok := auth.UserFromContext(ctx); !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	var update Update
	if details := pkg.DecodeAndValidate(r, &update); details != nil {
		log.Tracef("update settings, invalid input: %+v", details)
		pkg.WriteValidationErrorResponse(w, details)
		return
	}

	pkg.WriteJSONResponseOK(w, UpdateResponse{
		Message:  "บันทึกการตั้งค่าสำเร็จ",
		Settings: update,
	})
}
