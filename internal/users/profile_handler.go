package users

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/auth"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/workouts"
	"github.com/NutthakitPatike/Project-Fitness-app/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=profile_handler_mocks_test.go -package=users_test

type workoutTotals interface {
	Totals(ctx context.Context, userID string, from, to *time.Time) (workouts.Totals, error)
}

type updateProfileRequest struct {
	Name      *string              `json:"name" validate:"omitnil,min=1,max=100"`
	Email     *string              `json:"email" validate:"omitnil,email"`
	AvatarURL pkg.Optional[string] `json:"avatarUrl"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type deleteAccountRequest struct {
	Password    string `json:"password" validate:"required"`
	ConfirmText string `json:"confirmText" validate:"required,eq=DELETE"`
}

type ProfileResponse struct {
	User Profile `json:"user"`
}

type ProfileHandler struct {
	repo          usersRepo
	totals        workoutTotals
	secureCookies bool
}

func NewProfileHandler(repo usersRepo, totals workoutTotals, secureCookies bool) *ProfileHandler {
	return &ProfileHandler{
		repo:          repo,
		totals:        totals,
		secureCookies: secureCookies,
	}
}

func (handler *ProfileHandler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/profile", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/api/profile", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-profile")
	r.HandleFunc("/api/profile/password", handler.HandleChangePassword).Methods("POST", "OPTIONS").Name("change-password")
	r.HandleFunc("/api/profile/delete", handler.HandleDeleteAccount).Methods("POST", "OPTIONS").Name("delete-account")
}

func (handler *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.get")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	user, ok := handler.getUser(ctx, w, identity.UserID)
	if !ok {
		return
	}

	totals, err := handler.totals.Totals(ctx, identity.UserID, nil, nil)
	if err != nil {
		log.Errorf("profile, workout totals for %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	pkg.WriteJSONResponseOK(w, ProfileResponse{User: NewProfile(*user, totals)})
}

func (handler *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.update")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	var req updateProfileRequest
	if details := pkg.DecodeJSON(r, &req); details != nil {
		pkg.WriteValidationErrorResponse(w, details)
		return
	}
	if req.Email != nil {
		email := NormalizeEmail(*req.Email)
		req.Email = &email
	}
	details := pkg.Validate(req)
	if req.AvatarURL.Valid {
		details = append(details, pkg.ValidateVar("avatarUrl", req.AvatarURL.Value, "url")...)
	}
	if len(details) > 0 {
		log.Tracef("update profile, invalid input: %+v", details)
		pkg.WriteValidationErrorResponse(w, details)
		return
	}

	user, err := handler.repo.UpdateProfile(ctx, identity.UserID, ProfileUpdate{
		Name:         req.Name,
		Email:        req.Email,
		SetAvatarURL: req.AvatarURL.Set,
		AvatarURL:    req.AvatarURL.Ptr(),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			pkg.WriteErrorResponse(w, http.StatusConflict, pkg.MsgEmailTaken)
		case errors.Is(err, ErrUserNotFound):
			pkg.WriteNotFoundResponse(w, pkg.MsgUserNotFound)
		default:
			log.Errorf("update profile %s: %s", identity.UserID, err)
			pkg.WriteInternalErrorResponse(w)
		}
		return
	}

	pkg.WriteJSONResponseOK(w, UserResponse{
		Message: "อัปเดตโปรไฟล์สำเร็จ",
		User:    user,
	})
}

func (handler *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.password")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	var req changePasswordRequest
	if details := pkg.DecodeAndValidate(r, &req); details != nil {
		pkg.WriteValidationErrorResponse(w, details)
		return
	}

	user, ok := handler.getUser(ctx, w, identity.UserID)
	if !ok {
		return
	}
	if err := checkPassword(user, req.CurrentPassword); err != nil {
		pkg.WriteErrorResponse(w, http.StatusForbidden, pkg.MsgWrongCurrentPassword)
		return
	}

	passwordHash, err := pkg.HashPassword(req.NewPassword)
	if err != nil {
		log.Errorf("change password, hash: %s", err)
		pkg.WriteInternalErrorResponse(w)
		return
	}
	if err := handler.repo.UpdatePasswordHash(ctx, user.ID, passwordHash); err != nil {
		log.Errorf("change password for %s: %s", user.ID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	log.Infof("user %s changed password", user.ID)
	pkg.WriteJSONResponseOK(w, pkg.MessageResponse{Message: "เปลี่ยนรหัสผ่านสำเร็จ"})
}

func (handler *ProfileHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.delete")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	var req deleteAccountRequest
	if details := pkg.DecodeAndValidate(r, &req); details != nil {
		pkg.WriteValidationErrorResponse(w, details)
		return
	}

	user, ok := handler.getUser(ctx, w, identity.UserID)
	if !ok {
		return
	}
	if err := checkPassword(user, req.Password); err != nil {
		pkg.WriteErrorResponse(w, http.StatusForbidden, pkg.MsgWrongPassword)
		return
	}

	if err := handler.repo.Delete(ctx, user.ID); err != nil {
		log.Errorf("delete account %s: %s", user.ID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	log.Infof("user %s deleted their account", user.ID)
	auth.ClearSessionCookie(w, handler.secureCookies)
	pkg.WriteJSONResponseOK(w, pkg.MessageResponse{Message: "ลบบัญชีสำเร็จ"})
}

// getUser loads the caller and answers the request itself when that fails.
func (handler *ProfileHandler) getUser(ctx context.Context, w http.ResponseWriter, userID string) (*User, bool) {
	user, err := handler.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			pkg.WriteNotFoundResponse(w, pkg.MsgUserNotFound)
			return nil, false
		}
		log.Errorf("get user %s: %s", userID, err)
		pkg.WriteInternalErrorResponse(w)
		return nil, false
	}
	return user, true
}

func checkPassword(user *User, password string) error {
	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		return ErrWrongPassword
	}
	return nil
}
