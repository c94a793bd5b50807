package stats

import (
	"net/http"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/auth"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/workouts"
	"github.com/NutthakitPatike/Project-Fitness-app/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type DataResponse[T any] struct {
	Data []T `json:"data"`
}

type RecentResponse struct {
	Workouts []workouts.Workout `json:"workouts"`
}

type Handler struct {
	analyzer *Analyzer
}

func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{
		analyzer: analyzer,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/stats/summary", handler.HandleSummary).Methods("GET", "OPTIONS").Name("stats-summary")
	r.HandleFunc("/api/stats/chart", handler.HandleChart).Methods("GET", "OPTIONS").Name("stats-chart")
	r.HandleFunc("/api/analytics/monthly", handler.HandleMonthly).Methods("GET", "OPTIONS").Name("analytics-monthly")
	r.HandleFunc("/api/analytics/mothly", handleMonthlyTypo).Methods("GET").Name("analytics-monthly-typo")
	r.HandleFunc("/api/analytics/breakdown", handler.HandleBreakdown).Methods("GET", "OPTIONS").Name("analytics-breakdown")
	r.HandleFunc("/api/analytics/intensity", handler.HandleIntensity).Methods("GET", "OPTIONS").Name("analytics-intensity")
	r.HandleFunc("/api/analytics/recent", handler.HandleRecent).Methods("GET", "OPTIONS").Name("analytics-recent")
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.summary")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	summary, err := handler.analyzer.Summary(ctx, identity.UserID)
	if err != nil {
		log.Errorf("stats summary for %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	pkg.WriteJSONResponseOK(w, summary)
}

func (handler *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.chart")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	days, err := handler.analyzer.DailyChart(ctx, identity.UserID)
	if err != nil {
		log.Errorf("stats chart for %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	pkg.WriteJSONResponseOK(w, DataResponse[DayStats]{Data: days})
}

func (handler *Handler) HandleMonthly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.monthly")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	months, err := handler.analyzer.MonthlyRollup(ctx, identity.UserID)
	if err != nil {
		log.Errorf("monthly analytics for %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	pkg.WriteJSONResponseOK(w, DataResponse[MonthStats]{Data: months})
}

// handleMonthlyTypo keeps old clients of the misspelled path working.
func handleMonthlyTypo(w http.ResponseWriter, r *http.Request) {
	target := "/api/analytics/monthly"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

func (handler *Handler) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.breakdown")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	breakdown, err := handler.analyzer.BreakdownByType(ctx, identity.UserID)
	if err != nil {
		log.Errorf("breakdown analytics for %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	pkg.WriteJSONResponseOK(w, DataResponse[TypeStats]{Data: breakdown})
}

func (handler *Handler) HandleIntensity(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.intensity")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	breakdown, err := handler.analyzer.BreakdownByIntensity(ctx, identity.UserID)
	if err != nil {
		log.Errorf("intensity analytics for %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	pkg.WriteJSONResponseOK(w, DataResponse[IntensityStats]{Data: breakdown})
}

func (handler *Handler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.recent")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	recent, err := handler.analyzer.Recent(ctx, identity.UserID)
	if err != nil {
		log.Errorf("recent workouts for %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	pkg.WriteJSONResponseOK(w, RecentResponse{Workouts: recent})
}
