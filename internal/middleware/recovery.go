package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/metrics"
	"github.com/NutthakitPatike/Project-Fitness-app/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PanicRecovery turns a handler panic into a 500 response and marks the request span as failed.
// http.ErrAbortHandler is passed on so the server can abort the response.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if rErr, ok := r.(error); ok && errors.Is(rErr, http.ErrAbortHandler) {
					panic(r)
				}

				err := fmt.Errorf("panic: %v", r)
				span := trace.SpanFromContext(req.Context())
				span.RecordError(err, trace.WithStackTrace(true))
				span.SetStatus(codes.Error, err.Error())

				log.Errorf("http: panic serving %s %s: %v\n%s", req.Method, req.URL.Path, r, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				pkg.WriteInternalErrorResponse(respWriter)
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}
