package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	FareRequests      *prometheus.CounterVec
	EmptyResponses    prometheus.Counter
	FaresParsed       prometheus.Counter
	ResponsesArchived prometheus.Counter
	FlightsSaved      prometheus.Counter
	PricesSaved       prometheus.Counter
	RequestTime       prometheus.Histogram
	RunDuration       prometheus.Histogram
	ErrorsCount       *prometheus.CounterVec
	LastRunSuccess    prometheus.Gauge
}

// NewMetrics creates new prometheus metrics on a dedicated registry
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		FareRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fare_requests_total",
			Help:      "The total number of fare search requests",
		}, []string{"route"}),
		EmptyResponses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_responses_total",
			Help:      "The total number of fare searches without results",
		}),
		FaresParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fares_parsed_total",
			Help:      "The total number of normalized fare observations",
		}),
		ResponsesArchived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_archived_total",
			Help:      "The total number of archived raw responses",
		}),
		FlightsSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_saved_total",
			Help:      "The total number of flights handed to the store",
		}),
		PricesSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prices_saved_total",
			Help:      "The total number of price observations handed to the store",
		}),
		RequestTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fare_request_duration_seconds",
			Help:      "Time taken by one fare search request",
			Buckets:   prometheus.DefBuckets,
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time taken by one ingestion run",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 10),
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
		LastRunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last ingestion run succeeded, 0 otherwise",
		}),
	}
}

// Registry exposes the registry the metrics live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Push sends the current values to a Pushgateway under job
func (m *Metrics) Push(ctx context.Context, gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
