package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"resume-pipeline/internal/cloudimport"
	"resume-pipeline/internal/services/health"
	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/metrics"
	"resume-pipeline/internal/shared/server/middleware"
	"resume-pipeline/internal/uploads"
)

// RouterDeps carries the wired handlers the router mounts.
type RouterDeps struct {
	Config      config.Config
	Uploads     *uploads.Handler
	CloudImport *cloudimport.Service
	Health      *health.Service
	Metrics     *metrics.Pipeline
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimitConfig(deps.Config)),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.Health.Status(c.Request.Context()))
	})

	if deps.Uploads != nil {
		deps.Uploads.RegisterRoutes(api)
	}
	if deps.CloudImport != nil {
		deps.CloudImport.RegisterRoutes(api)
	}
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	return r
}

// rateLimitConfig gives status polling more headroom than mutating
// requests.
func rateLimitConfig(cfg config.Config) middleware.RateLimitConfig {
	perMinute := cfg.RateLimitPerMinute
	if perMinute <= 0 {
		perMinute = 120
	}
	perSecond := rate.Limit(float64(perMinute) / 60.0)

	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet && c.FullPath() == "/api/v1/uploads/:fileId" {
				return "POLLING"
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: perSecond, Burst: perMinute},
			"POLLING": {Rate: perSecond * 5, Burst: perMinute * 5},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
