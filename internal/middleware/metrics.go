package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "usergraph_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})

	// GraphMutations counts graph mutations by operation and outcome code.
	GraphMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "usergraph_graph_mutations_total",
		Help: "Total number of graph mutations by operation and result",
	}, []string{"operation", "result"})

	// PopularityComputeDuration records how long a single popularity score takes to compute.
	PopularityComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "usergraph_popularity_compute_seconds",
		Help:    "Popularity score computation latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide Fiber Prometheus middleware, creating it on first use.
// fiberprometheus registers its collectors globally, so it must only be built once.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request count and latency through fiberprometheus.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
