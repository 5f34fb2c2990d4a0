package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ItineraryBuildsTotal       metric.Int64Counter
	ItineraryBuildSeconds      metric.Float64Histogram
	GenerationRequestsTotal    metric.Int64Counter
	GenerationDurationSeconds  metric.Float64Histogram
	GenerationInFlightRejected metric.Int64Counter
	DbQueryDurationSeconds     metric.Float64Histogram
	DbQueryErrorsTotal         metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("roamly-api")
		var err error
		m := &AppMetrics{}

		m.ItineraryBuildsTotal, err = meter.Int64Counter(
			"itinerary_builds_total",
			metric.WithDescription("Total number of itinerary timeline builds, labeled by source tier"),
			metric.WithUnit("{build}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_builds_total: %v", err)
		}

		m.ItineraryBuildSeconds, err = meter.Float64Histogram(
			"itinerary_build_duration_seconds",
			metric.WithDescription("Duration of itinerary timeline builds in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_build_duration_seconds: %v", err)
		}

		m.GenerationRequestsTotal, err = meter.Int64Counter(
			"generation_requests_total",
			metric.WithDescription("Total number of itinerary generation requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_requests_total: %v", err)
		}

		m.GenerationDurationSeconds, err = meter.Float64Histogram(
			"generation_duration_seconds",
			metric.WithDescription("Duration of external generation calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_duration_seconds: %v", err)
		}

		m.GenerationInFlightRejected, err = meter.Int64Counter(
			"generation_inflight_rejected_total",
			metric.WithDescription("Generation requests rejected because one was already running for the trip"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_inflight_rejected_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics.Get called before InitAppMetrics")
	}
	return appMetrics
}
