package goals

import (
	"context"
	"errors"
	"net/http"
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

//go:generate mockgen -source=$GOFILE -destination=goals_mocks_test.go -package=goals_test

type goalsRepo interface {
	Add(ctx context.Context, goal Goal) (*Goal, error)
	Delete(ctx context.Context, userID, id string) error
}

type goalRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=100"`
	Description *string    `json:"description" validate:"omitnil,max=500"`
	TargetType  TargetType `json:"targetType" validate:"required,oneof=workouts calories duration distance"`
	TargetValue *float64   `json:"targetValue" validate:"required,gte=1"`
	Period      Period     `json:"period" validate:"required,oneof=daily weekly monthly"`
}

type GoalsResponse struct {
	Goals []Goal `json:"goals"`
}

type GoalResponse struct {
	Message string `json:"message"`
	Goal    *Goal  `json:"goal"`
}

type Handler struct {
	repo           goalsRepo
	service        *Service
	metricsManager *metrics.Manager
	loc            *time.Location
	nowFunc        func() time.Time
}

func NewHandler(
	repo goalsRepo,
	service *Service,
	metricsManager *metrics.Manager,
	loc *time.Location,
	nowFunc func() time.Time,
) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &Handler{
		repo:           repo,
		service:        service,
		metricsManager: metricsManager,
		loc:            loc,
		nowFunc:        nowFunc,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/goals", handler.HandleList).Methods("GET", "OPTIONS").Name("list-goals")
	r.HandleFunc("/api/goals", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-goal")
	r.HandleFunc("/api/goals/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-goal")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.list")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	statusFilter := r.URL.Query().Get("status")
	if statusFilter == "" {
		statusFilter = "all"
	}
	if details := pkg.ValidateVar("status", statusFilter, "oneof=all active completed failed"); details != nil {
		pkg.WriteValidationErrorResponse(w, details)
		return
	}
	span.SetAttributes(attribute.String("status", statusFilter))

	goals, err := handler.service.EvaluatedGoals(ctx, identity.UserID)
	if err != nil {
		log.Errorf("list goals for %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	filtered := make([]Goal, 0, len(goals))
	for _, g := range goals {
		if statusFilter == "all" || string(g.Status) == statusFilter {
			filtered = append(filtered, g)
		}
	}

	pkg.WriteJSONResponseOK(w, GoalsResponse{Goals: filtered})
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.new")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	var req goalRequest
	if details := pkg.DecodeAndValidate(r, &req); details != nil {
		log.Tracef("new goal, invalid input: %+v", details)
		pkg.WriteValidationErrorResponse(w, details)
		return
	}

	now := handler.nowFunc()
	start, end := Window(req.Period, now, handler.loc)
	goal, err := handler.repo.Add(ctx, Goal{
		UserID:      identity.UserID,
		Title:       req.Title,
		Description: req.Description,
		TargetType:  req.TargetType,
		TargetValue: *req.TargetValue,
		Period:      req.Period,
		StartDate:   start,
		EndDate:     end,
		Status:      StatusActive,
	})
	if err != nil {
		log.Errorf("add goal for %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterGoalsAdded.Inc()
	}
	log.Debugf("new goal added: %s [%s %s]", goal.ID, goal.Period, goal.TargetType)

	// workouts logged earlier today already count. the goal is stored either way
	if err := handler.service.Evaluate(ctx, goal); err != nil {
		log.Errorf("evaluate new goal %s: %s", goal.ID, err)
	}

	pkg.WriteJSONResponse(w, http.StatusCreated, GoalResponse{
		Message: "สร้างเป้าหมายสำเร็จ",
		Goal:    goal,
	})
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.delete")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteNotFoundResponse(w, pkg.MsgNotFound)
		return
	}

	if err := handler.repo.Delete(ctx, identity.UserID, id.String()); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			pkg.WriteNotFoundResponse(w, pkg.MsgNotFound)
			return
		}
		log.Errorf("delete goal %s: %s", id, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	pkg.WriteJSONResponseOK(w, pkg.MessageResponse{Message: "ลบเป้าหมายสำเร็จ"})
}
