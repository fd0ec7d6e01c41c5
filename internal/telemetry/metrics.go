package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/asknalyze"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Session lifecycle metrics
	LoginsTotal    metric.Int64Counter
	TeardownsTotal metric.Int64Counter

	// HTTP hook metrics
	AuthenticatedRequestsTotal metric.Int64Counter
	UnauthorizedRedirectsTotal metric.Int64Counter

	// API client metrics
	APIRequestDuration metric.Float64Histogram
	APIRetriesTotal    metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary.
// Instruments bind to whichever meter provider is global at first use, so call
// InitTelemetry before the first request when exporting.
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// RecordLogin counts a stored session.
func RecordLogin() {
	GetMetrics().LoginsTotal.Add(context.Background(), 1)
}

// RecordTeardown counts a cleared session, labelled with why it was cleared.
func RecordTeardown(reason string) {
	GetMetrics().TeardownsTotal.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordAuthenticatedRequest counts a request that had a bearer token attached.
func RecordAuthenticatedRequest() {
	GetMetrics().AuthenticatedRequestsTotal.Add(context.Background(), 1)
}

// RecordUnauthorizedRedirect counts a 401 that ended the session.
func RecordUnauthorizedRedirect() {
	GetMetrics().UnauthorizedRedirectsTotal.Add(context.Background(), 1)
}

// RecordAPIRequest records the duration of one API call.
func RecordAPIRequest(ctx context.Context, endpoint string, status int, d time.Duration) {
	GetMetrics().APIRequestDuration.Record(ctx, float64(d.Microseconds())/1000.0,
		metric.WithAttributes(
			attribute.String("endpoint", endpoint),
			attribute.Int("status", status),
		))
}

// RecordAPIRetry counts a retried reachability check.
func RecordAPIRetry(ctx context.Context) {
	GetMetrics().APIRetriesTotal.Add(ctx, 1)
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.LoginsTotal, _ = meter.Int64Counter(
		"asknalyze.session.logins.total",
		metric.WithDescription("Total number of sessions stored after login"),
		metric.WithUnit("{session}"),
	)

	m.TeardownsTotal, _ = meter.Int64Counter(
		"asknalyze.session.teardowns.total",
		metric.WithDescription("Total number of sessions cleared, by reason"),
		metric.WithUnit("{session}"),
	)

	m.AuthenticatedRequestsTotal, _ = meter.Int64Counter(
		"asknalyze.http.authenticated_requests.total",
		metric.WithDescription("Total number of requests sent with a bearer token"),
		metric.WithUnit("{request}"),
	)

	m.UnauthorizedRedirectsTotal, _ = meter.Int64Counter(
		"asknalyze.http.unauthorized_redirects.total",
		metric.WithDescription("Total number of 401 responses that redirected to sign in"),
		metric.WithUnit("{redirect}"),
	)

	m.APIRequestDuration, _ = meter.Float64Histogram(
		"asknalyze.api.request.duration",
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("ms"),
	)

	m.APIRetriesTotal, _ = meter.Int64Counter(
		"asknalyze.api.retries.total",
		metric.WithDescription("Total number of retried reachability checks"),
		metric.WithUnit("{retry}"),
	)

	return m
}
