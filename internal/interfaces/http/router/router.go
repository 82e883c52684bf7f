// Package router assembles the gin engine of the HTTP API
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/propcore/backend/internal/infrastructure/logger"
	"github.com/propcore/backend/internal/interfaces/http/dto"
	"github.com/propcore/backend/internal/interfaces/http/handler"
	"github.com/propcore/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar mounts a group of endpoints
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Options configures the engine
type Options struct {
	APIVersion     string
	ServiceName    string
	Tracing        bool
	MaxBodySize    int64
	TrustedProxies []string
}

// Router builds the engine from its registrars
type Router struct {
	opts       Options
	logger     *zap.Logger
	resolver   middleware.ContextResolver
	health     *handler.HealthHandler
	registrars []RouteRegistrar
}

// New creates a router. Every registrar is mounted behind the identity
// middleware; only the health check is public.
func New(opts Options, log *zap.Logger, resolver middleware.ContextResolver, health *handler.HealthHandler) *Router {
	if opts.APIVersion == "" {
		opts.APIVersion = "v1"
	}
	return &Router{opts: opts, logger: log, resolver: resolver, health: health}
}

// Register adds registrars
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Engine builds the gin engine
func (r *Router) Engine() *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if err := engine.SetTrustedProxies(r.opts.TrustedProxies); err != nil {
		r.logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(
		middleware.Tracing(r.opts.ServiceName, r.opts.Tracing),
		logger.GinMiddleware(r.logger),
		logger.Recovery(r.logger),
		middleware.SpanErrorMarker(),
		middleware.SecureHeaders(),
		middleware.BodyLimit(r.opts.MaxBodySize),
	)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeRouteNotFound,
			"Route not found", logger.GetRequestID(c.Request.Context())))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.ErrCodeBadRequest,
			"Method not allowed", logger.GetRequestID(c.Request.Context())))
	})

	api := engine.Group("/api/" + r.opts.APIVersion)
	if r.health != nil {
		api.GET("/health", r.health.Check)
	}

	secured := api.Group("", middleware.Identity(r.resolver))
	for _, reg := range r.registrars {
		reg.RegisterRoutes(secured)
	}
	return engine
}
