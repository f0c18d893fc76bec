package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "cashflow_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	forecastTotal   *prometheus.CounterVec
	forecastLatency *prometheus.HistogramVec

	scoringTotal  *prometheus.CounterVec
	creditRatings *prometheus.CounterVec

	narrativeTotal   *prometheus.CounterVec
	narrativeLatency *prometheus.HistogramVec

	cacheLookups   *prometheus.CounterVec
	cacheEntries   prometheus.Gauge
	rateLimited    prometheus.Counter
	trackedCallers prometheus.Gauge

	exportTotal *prometheus.CounterVec
)

// Init registers the service metrics with the default registry. Calling it more than once is a no-op.
func Init() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		)

		forecastTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "forecast_total",
				Help: "Total forecast runs by strategy, fallback and result",
			},
			[]string{"strategy", "fell_back", "result"},
		)
		forecastLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "forecast_latency_seconds",
				Help:    "Forecast computation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy"},
		)

		scoringTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "scoring_total",
				Help: "Total scoring runs by kind and outcome tier",
			},
			[]string{"kind", "tier"},
		)
		creditRatings = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "credit_ratings_total",
				Help: "Credit ratings issued by label",
			},
			[]string{"rating"},
		)

		narrativeTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "narrative_requests_total",
				Help: "Narrative provider calls by provider and result",
			},
			[]string{"provider", "result"},
		)
		narrativeLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "narrative_latency_seconds",
				Help:    "Narrative provider latency in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"provider"},
		)

		cacheLookups = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cache_lookups_total",
				Help: "Response cache lookups by outcome",
			},
			[]string{"outcome"},
		)
		cacheEntries = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "cache_entries",
				Help: "Approximate number of cached responses",
			},
		)
		rateLimited = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "rate_limited_total",
				Help: "Requests rejected by the per-caller rate limiter",
			},
		)
		trackedCallers = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "rate_limit_callers",
				Help: "Callers currently tracked by the rate limiter",
			},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Report exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			forecastTotal,
			forecastLatency,
			scoringTotal,
			creditRatings,
			narrativeTotal,
			narrativeLatency,
			cacheLookups,
			cacheEntries,
			rateLimited,
			trackedCallers,
			exportTotal,
		)
	})
}

func resultOf(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

// ObserveHTTP records one served request.
func ObserveHTTP(route string, code int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if httpRequests != nil {
		httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(route).Observe(duration.Seconds())
	}
}

// ObserveForecast records a forecast run.
func ObserveForecast(strategy string, fellBack bool, err error, duration time.Duration) {
	if strategy == "" {
		strategy = "unknown"
	}
	if forecastTotal != nil {
		forecastTotal.WithLabelValues(strategy, strconv.FormatBool(fellBack), resultOf(err)).Inc()
	}
	if forecastLatency != nil {
		forecastLatency.WithLabelValues(strategy).Observe(duration.Seconds())
	}
}

// IncScoring counts a credit or risk scoring outcome.
func IncScoring(kind, tier string) {
	if tier == "" {
		tier = "unknown"
	}
	if scoringTotal != nil {
		scoringTotal.WithLabelValues(kind, tier).Inc()
	}
}

// IncCreditRating counts an issued credit rating.
func IncCreditRating(rating string) {
	if creditRatings != nil {
		creditRatings.WithLabelValues(rating).Inc()
	}
}

// ObserveNarrative records a narrative provider call.
func ObserveNarrative(provider string, err error, duration time.Duration) {
	if narrativeTotal != nil {
		narrativeTotal.WithLabelValues(provider, resultOf(err)).Inc()
	}
	if narrativeLatency != nil {
		narrativeLatency.WithLabelValues(provider).Observe(duration.Seconds())
	}
}

// IncCacheLookup counts a cache hit or miss.
func IncCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	if cacheLookups != nil {
		cacheLookups.WithLabelValues(outcome).Inc()
	}
}

// SetCacheEntries publishes the cache size.
func SetCacheEntries(n int) {
	if cacheEntries != nil {
		cacheEntries.Set(float64(n))
	}
}

// IncRateLimited counts a rejected request.
func IncRateLimited() {
	if rateLimited != nil {
		rateLimited.Inc()
	}
}

// SetTrackedCallers publishes the rate limiter's caller count.
func SetTrackedCallers(n int) {
	if trackedCallers != nil {
		trackedCallers.Set(float64(n))
	}
}

// ObserveExport counts a report export.
func ObserveExport(format string, err error) {
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, resultOf(err)).Inc()
	}
}
