package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
	"github.com/Aleph-Alpha/catalog-ingest/v1/metrics"
)

const healthPath = "/healthz"

// NewRouter builds the gin engine. m may be nil.
func NewRouter(cfg Config, h *Handlers, log logger.Logger, m metrics.MetricsCollector) *gin.Engine {
	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	if m != nil {
		router.Use(RequestMetrics(m))
	}

	router.GET(healthPath, Health)

	v1 := router.Group("/v1/providers/:providerId")
	v1.POST("/catalog-versions", h.CreateVersion)
	v1.GET("/catalog-versions", h.ListVersions)

	return router
}

// NewServer wraps the router in an *http.Server.
func NewServer(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}
