package workouts

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/auth"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/metrics"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"
	"github.com/NutthakitPatike/Project-Fitness-app/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Add(ctx context.Context, workout Workout) (*Workout, error)
	Get(ctx context.Context, userID, id string) (*Workout, error)
	List(ctx context.Context, params ListParams) (_ []Workout, total int, err error)
	Update(ctx context.Context, workout Workout) (*Workout, error)
	Delete(ctx context.Context, userID, id string) error
}

const (
	defaultPage      = 1
	defaultLimit     = 10
	maxLimit         = 100
	maxOffset        = math.MaxInt32
	defaultSortBy    = "exerciseDate"
	defaultSortOrder = "desc"

	msgCreated = "บันทึกสำเร็จ"
	msgUpdated = "อัปเดตสำเร็จ"
	msgDeleted = "ลบสำเร็จ"
)

type workoutRequest struct {
	ExerciseType    string     `json:"exerciseType" validate:"required,max=50"`
	DurationMinutes *int       `json:"durationMinutes" validate:"required,gte=1,lte=1440"`
	CaloriesBurned  *float64   `json:"caloriesBurned" validate:"required,gte=0,lte=9999.99"`
	DistanceKm      *float64   `json:"distanceKm" validate:"omitnil,gte=0,lte=999.99"`
	Intensity       Intensity  `json:"intensity" validate:"omitempty,oneof=low medium high"`
	Notes           *string    `json:"notes" validate:"omitnil,max=500"`
	ExerciseDate    *time.Time `json:"exerciseDate" validate:"required"`
}

func (req workoutRequest) toWorkout(userID string) Workout {
	return Workout{
		UserID:          userID,
		ExerciseType:    req.ExerciseType,
		DurationMinutes: *req.DurationMinutes,
		CaloriesBurned:  *req.CaloriesBurned,
		DistanceKm:      req.DistanceKm,
		Intensity:       req.Intensity,
		Notes:           req.Notes,
		ExerciseDate:    *req.ExerciseDate,
	}
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type ListResponse struct {
	Workouts   []Workout  `json:"workouts"`
	Pagination Pagination `json:"pagination"`
}

type WorkoutResponse struct {
	Message string   `json:"message,omitempty"`
	Workout *Workout `json:"workout"`
}

type Handler struct {
	repo           workoutsRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo workoutsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/workouts", handler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/api/workouts", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/api/workouts/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/api/workouts/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-workout")
	r.HandleFunc("/api/workouts/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	params, details := parseListParams(r)
	if details != nil {
		log.Tracef("list workouts, invalid params: %+v", details)
		pkg.WriteValidationErrorResponse(w, details)
		return
	}
	params.UserID = identity.UserID

	workouts, total, err := handler.repo.List(ctx, params)
	if err != nil {
		log.Errorf("list workouts for user %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	if workouts == nil {
		workouts = []Workout{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	pkg.WriteJSONResponseOK(w, ListResponse{
		Workouts: workouts,
		Pagination: Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func parseListParams(r *http.Request) (ListParams, []pkg.FieldError) {
	query := r.URL.Query()
	params := ListParams{
		ExerciseType: NormalizeExerciseType(query.Get("exerciseType")),
		SortBy:       defaultSortBy,
		SortOrder:    defaultSortOrder,
		Page:         defaultPage,
		Limit:        defaultLimit,
	}

	var details []pkg.FieldError
	if pageStr := query.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			details = append(details, pkg.FieldError{Field: "page", Tag: "min", Message: "ต้องมีค่าอย่างน้อย 1"})
		}
		params.Page = page
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > maxLimit {
			details = append(details, pkg.FieldError{Field: "limit", Tag: "max", Message: "ต้องอยู่ระหว่าง 1 ถึง 100"})
		}
		params.Limit = limit
	}
	// the row offset has to fit a postgres integer
	if len(details) == 0 && params.Page-1 > maxOffset/params.Limit {
		details = append(details, pkg.FieldError{Field: "page", Tag: "max", Message: "หน้าเกินจำนวนที่รองรับ"})
	}
	if sortBy := query.Get("sortBy"); sortBy != "" {
		if _, ok := sortColumns[sortBy]; !ok {
			details = append(details, pkg.FieldError{Field: "sortBy", Tag: "oneof", Message: pkg.MsgInvalidInput})
		}
		params.SortBy = sortBy
	}
	if sortOrder := query.Get("sortOrder"); sortOrder != "" {
		if sortOrder != "asc" && sortOrder != "desc" {
			details = append(details, pkg.FieldError{Field: "sortOrder", Tag: "oneof", Message: "ต้องเป็นหนึ่งใน: asc desc"})
		}
		params.SortOrder = sortOrder
	}

	return params, details
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.new")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	var req workoutRequest
	if details := decodeWorkoutRequest(r, &req); details != nil {
		log.Tracef("new workout, invalid input: %+v", details)
		pkg.WriteValidationErrorResponse(w, details)
		return
	}
	if req.Intensity == "" {
		req.Intensity = IntensityMedium
	}

	added, err := handler.repo.Add(ctx, req.toWorkout(identity.UserID))
	if err != nil {
		log.Errorf("failed to add new workout for user %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterWorkoutsAdded.Inc()
	}
	span.SetAttributes(attribute.String("workout.id", added.ID))
	log.Debugf("new workout added: %s [%s]", added.ID, added.ExerciseType)

	pkg.WriteJSONResponse(w, http.StatusCreated, WorkoutResponse{
		Message: msgCreated,
		Workout: added,
	})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	id, ok := workoutID(r)
	if !ok {
		pkg.WriteNotFoundResponse(w, pkg.MsgNotFound)
		return
	}

	workout, err := handler.repo.Get(ctx, identity.UserID, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			pkg.WriteNotFoundResponse(w, pkg.MsgNotFound)
			return
		}
		log.Errorf("get workout %s: %s", id, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	pkg.WriteJSONResponseOK(w, WorkoutResponse{Workout: workout})
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	id, ok := workoutID(r)
	if !ok {
		pkg.WriteNotFoundResponse(w, pkg.MsgNotFound)
		return
	}

	var req workoutRequest
	details := decodeWorkoutRequest(r, &req)
	if details == nil && req.Intensity == "" {
		details = pkg.ValidateVar("intensity", string(req.Intensity), "required")
	}
	if details != nil {
		log.Tracef("update workout %s, invalid input: %+v", id, details)
		pkg.WriteValidationErrorResponse(w, details)
		return
	}

	workout := req.toWorkout(identity.UserID)
	workout.ID = id

	updated, err := handler.repo.Update(ctx, workout)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			pkg.WriteNotFoundResponse(w, pkg.MsgNotFound)
			return
		}
		log.Errorf("update workout %s: %s", id, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	pkg.WriteJSONResponseOK(w, WorkoutResponse{
		Message: msgUpdated,
		Workout: updated,
	})
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	id, ok := workoutID(r)
	if !ok {
		pkg.WriteNotFoundResponse(w, pkg.MsgNotFound)
		return
	}

	if err := handler.repo.Delete(ctx, identity.UserID, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			pkg.WriteNotFoundResponse(w, pkg.MsgNotFound)
			return
		}
		log.Errorf("delete workout %s: %s", id, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	log.Debugf("workout %s deleted", id)
	pkg.WriteJSONResponseOK(w, pkg.MessageResponse{Message: msgDeleted})
}

func decodeWorkoutRequest(r *http.Request, req *workoutRequest) []pkg.FieldError {
	if details := pkg.DecodeJSON(r, req); details != nil {
		return details
	}
	req.ExerciseType = NormalizeExerciseType(req.ExerciseType)
	return pkg.Validate(req)
}

// workoutID reads the {id} path var. A malformed id can never match a stored workout.
func workoutID(r *http.Request) (string, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return "", false
	}
	return id.String(), true
}
