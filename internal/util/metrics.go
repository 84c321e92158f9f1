package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PurchasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "purchases_total",
		Help: "Total number of completed purchases",
	})

	PurchasesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "purchases_failed_total",
		Help: "Total number of failed purchase attempts",
	}, []string{"reason"})

	PurchaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "purchase_latency_seconds",
		Help:    "Latency of the purchase workflow",
		Buckets: prometheus.DefBuckets,
	})

	LoginAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Total number of login validations",
	})

	LoginFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "login_failures_total",
		Help: "Total number of failed login validations",
	}, []string{"reason"})

	UsersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "users_registered_total",
		Help: "Total number of registered users",
	})

	RegistrationsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registrations_rejected_total",
		Help: "Total number of rejected registration attempts",
	}, []string{"reason"})

	CatalogCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total number of product detail cache hits",
	})

	CatalogCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Total number of product detail cache misses",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
