package observability

import (
	"net/http"
	"time"

	"github.com/danmuck/fieldmux/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// StatsFunc reports counters for the health endpoint.
type StatsFunc func() map[string]uint64

// NewAdminRouter serves /health and /metrics. A non-nil guard requires a
// bearer token on /metrics; /health stays open.
func NewAdminRouter(logger zerolog.Logger, stats StatsFunc, guard auth.Validator) *gin.Engine {
	RegisterMetrics()
	startedAt := time.Now()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(RequestMetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status": "ok",
			"uptime": time.Since(startedAt).String(),
		}
		if stats != nil {
			body["stats"] = stats()
		}
		c.JSON(http.StatusOK, body)
	})
	metrics := r.Group("/")
	if guard != nil {
		metrics.Use(RequireToken(guard, logger))
	}
	metrics.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
