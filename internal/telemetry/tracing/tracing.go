package tracing

import (
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const honeycombEndpoint = "api.honeycomb.io:443"

var GlobalTracer = otel.Tracer("fitness-backend")

// EndSpanWithErrCheck marks the span as failed when err is set, then ends it.
func EndSpanWithErrCheck(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	span.End()
}

// HoneycombSetup configures the OpenTelemetry SDK to export to Honeycomb and instruments the redis client.
// The returned function flushes and shuts down the exporter. With tracing disabled it is a no-op.
func HoneycombSetup(
	enabled bool,
	serviceName string,
	apiKey string,
	rdb *redis.Client,
) (func(), error) {
	if !enabled {
		log.Debugln("honeycomb tracing disabled")
		return func() {}, nil
	}

	if apiKey == "" {
		log.Warnln("honeycomb tracing enabled, but HONEYCOMB_API_KEY not set")
	}

	if rdb != nil {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(serviceName),
		otelconfig.WithExporterEndpoint(honeycombEndpoint),
		otelconfig.WithHeaders(map[string]string{
			"x-honeycomb-team": apiKey,
		}),
		otelconfig.WithSpanProcessor(honeycomb.NewBaggageSpanProcessor()),
	)
	if err != nil {
		return nil, err
	}

	log.Infof("honeycomb tracing set up for service: %s", serviceName)
	return otelShutdown, nil
}
