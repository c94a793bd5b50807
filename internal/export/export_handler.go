package export

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/auth"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/metrics"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/users"
	"github.com/NutthakitPatike/Project-Fitness-app/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	exporter       *Exporter
	metricsManager *metrics.Manager
	loc            *time.Location
}

func NewHandler(exporter *Exporter, metricsManager *metrics.Manager, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		exporter:       exporter,
		metricsManager: metricsManager,
		loc:            loc,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/export", handler.HandleExport).Methods("GET", "OPTIONS").Name("export")
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.export")
	defer span.End()

	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		pkg.WriteUnauthorizedResponse(w, pkg.MsgNoToken)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatJSON
	}
	if details := pkg.ValidateVar("format", format, "oneof=json csv"); details != nil {
		pkg.WriteValidationErrorResponse(w, details)
		return
	}
	span.SetAttributes(attribute.String("format", format))

	data, err := handler.exporter.Collect(ctx, identity.UserID)
	if errors.Is(err, users.ErrUserNotFound) {
		pkg.WriteNotFoundResponse(w, pkg.MsgUserNotFound)
		return
	} else if err != nil {
		log.Errorf("export for %s: %s", identity.UserID, err)
		pkg.WriteInternalErrorResponse(w)
		return
	}

	if format == FormatCSV {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, data.Workouts, handler.loc); err != nil {
			log.Errorf("export csv for %s: %s", identity.UserID, err)
			pkg.WriteInternalErrorResponse(w)
			return
		}
		setAttachment(w, CSVFilename)
		pkg.WriteResponseBytes(w, pkg.ContentType.CSV, buf.Bytes(), http.StatusOK)
	} else {
		setAttachment(w, JSONFilename)
		pkg.WriteJSONResponseOK(w, data)
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterExports.WithLabelValues(format).Inc()
	}
	log.Debugf("user %s exported %d workouts and %d goals as %s", identity.UserID, data.TotalWorkouts, data.TotalGoals, format)
}

func setAttachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
