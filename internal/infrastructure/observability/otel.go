package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const scopeName = "github.com/openlots/parking-reservation"

// Metrics holds all application metrics
type Metrics struct {
	RequestCount    metric.Int64Counter
	RequestDuration metric.Float64Histogram

	SweepDuration  metric.Float64Histogram
	EmailsSent     metric.Int64Counter
	SweepFailures  metric.Int64Counter
	OverdueCharges metric.Int64Counter
}

// Setup initializes OpenTelemetry tracing and metrics export
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(time.Minute)); err != nil {
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		)
	}

	return shutdown, nil
}

// InitMetrics initializes application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(scopeName)

	requestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	sweepDuration, err := meter.Float64Histogram(
		"notifier.sweep.duration",
		metric.WithDescription("Notifier sweep duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	emailsSent, err := meter.Int64Counter(
		"notifier.emails.sent",
		metric.WithDescription("Number of notification emails sent, by bucket"),
	)
	if err != nil {
		return nil, err
	}

	sweepFailures, err := meter.Int64Counter(
		"notifier.sweep.failures",
		metric.WithDescription("Number of per-item failures during notifier sweeps"),
	)
	if err != nil {
		return nil, err
	}

	overdueCharges, err := meter.Int64Counter(
		"notifier.overdue.charges",
		metric.WithDescription("Number of overdue charges applied"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:    requestCount,
		RequestDuration: requestDuration,
		SweepDuration:   sweepDuration,
		EmailsSent:      emailsSent,
		SweepFailures:   sweepFailures,
		OverdueCharges:  overdueCharges,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(scopeName).Start(ctx, spanName)
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordRequestMetric records an HTTP request metric
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, route string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	}
	metrics.RequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordSweepMetrics records the outcome of one notifier sweep
func RecordSweepMetrics(ctx context.Context, metrics *Metrics, startReminders, endReminders, overdueCharges, failures int64, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.EmailsSent.Add(ctx, startReminders, metric.WithAttributes(attribute.String("bucket", "start_reminder")))
	metrics.EmailsSent.Add(ctx, endReminders, metric.WithAttributes(attribute.String("bucket", "end_reminder")))
	metrics.EmailsSent.Add(ctx, overdueCharges, metric.WithAttributes(attribute.String("bucket", "overdue")))
	metrics.OverdueCharges.Add(ctx, overdueCharges)
	metrics.SweepFailures.Add(ctx, failures)
	metrics.SweepDuration.Record(ctx, float64(duration.Milliseconds()))
}
