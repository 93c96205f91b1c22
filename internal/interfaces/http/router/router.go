// Package router assembles the gin engine: middleware chain, versioned API group and registrars.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/movable/backend/internal/infrastructure/logger"
	"github.com/movable/backend/internal/infrastructure/telemetry"
	"github.com/movable/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	apiChain   []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAPIMiddleware adds middleware that runs only on the versioned API group
func WithAPIMiddleware(handlers ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.apiChain = append(r.apiChain, handlers...)
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/"+r.apiVersion, r.apiChain...)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// EngineConfig configures the middleware chain of NewEngine
type EngineConfig struct {
	ServiceName    string
	Logger         *zap.Logger
	CORS           middleware.CORSConfig
	BodyLimit      int64
	TrustedProxies []string
	// ProfilingLabels tags profiling samples with the matched route
	ProfilingLabels bool
}

// NewEngine creates a gin engine with the global middleware chain installed.
// Order matters: spans first so request ids and logs carry trace ids, recovery inside logging so panics are logged as 500s.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = middleware.DefaultBodyLimit
	}

	engine.Use(
		otelgin.Middleware(cfg.ServiceName),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(cfg.CORS),
		middleware.BodyLimit(bodyLimit),
	)
	if cfg.ProfilingLabels {
		engine.Use(telemetry.ProfilingLabels())
	}
	return engine, nil
}
