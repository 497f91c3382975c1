package httpapi

import (
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	// AllowedOrigins for CORS. Empty allows every origin.
	AllowedOrigins []string
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Metrics  *metrics.Metrics
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg RouterConfig, svc AuthService, l logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(l, cfg.Metrics))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
		RequestIDHeader,
	}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/health", handleHealth)
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	h := NewHandler(svc, l)

	api := router.Group("/api")
	{
		api.POST("/signup", h.Signup)
		api.POST("/login", h.Login)

		protected := api.Group("")
		protected.Use(RequireToken(svc))
		{
			protected.GET("/landing-page", h.LandingPage)
			protected.POST("/landing-page", h.LandingPage)
		}
	}

	return router
}
