package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/medregistry/registry-api/internal/handler"
	"github.com/medregistry/registry-api/internal/middleware"
)

// Handler is anything that can attach its routes to the API group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	Mode           string
	RateLimitRPS   float64
	RateLimitBurst int
}

type Router struct {
	engine   *gin.Engine
	identity *middleware.IdentityMiddleware
	handlers []Handler
}

func New(cfg Config, log *zerolog.Logger, identity *middleware.IdentityMiddleware, handlers ...Handler) *Router {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	handler.RegisterValidations()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(),
	)
	if cfg.RateLimitRPS > 0 {
		engine.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit())
	}

	return &Router{
		engine:   engine,
		identity: identity,
		handlers: handlers,
	}
}

// Setup mounts the operational endpoints and the authenticated API surface.
func (r *Router) Setup() {
	r.engine.GET("/healthz", handler.HealthCheck)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	api.Use(r.identity.Authenticate())
	for _, h := range r.handlers {
		h.RegisterRoutes(api)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
