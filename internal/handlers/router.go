package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/xlov-lab/experience-api/internal/platform/httpx"
)

// RouteRegistrar registers a set of routes against the provided router.
type RouteRegistrar func(r chi.Router)

const (
	defaultAPIPrefix = "/api/v1"
	// Image generation calls can take over a minute end to end.
	defaultTimeout    = 120 * time.Second
	errorNotFoundCode = "route_not_found"
)

// programGroups is the fixed set of experience programs mounted under the API
// prefix, in route order.
var programGroups = []string{"spectrum", "canvas", "mirror", "responses", "stats"}

type routerConfig struct {
	basePath    string
	middlewares []func(http.Handler) http.Handler
	health      *HealthHandlers
	groups      map[string]RouteRegistrar
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

// NewRouter builds the chi router: shared middleware, health probes outside
// the API prefix, and one route group per experience program. Groups without
// a registrar answer 501 so partial deployments fail loudly.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		basePath: defaultAPIPrefix,
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Timeout(defaultTimeout),
		},
		groups: make(map[string]RouteRegistrar, len(programGroups)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.health == nil {
		cfg.health = NewHealthHandlers()
	}

	r := chi.NewRouter()
	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeRouteError(w, req, errorNotFoundCode, fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeRouteError(w, req, "method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed)
	})

	r.Get("/healthz", cfg.health.Healthz)
	r.Get("/readyz", cfg.health.Readyz)

	r.Route(cfg.basePath, func(api chi.Router) {
		for _, name := range programGroups {
			registrar := cfg.groups[name]
			api.Route("/"+name, func(group chi.Router) {
				if registrar == nil {
					mountNotImplemented(group, name)
					return
				}
				registrar(group)
			})
		}
	})

	return r
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithHealthHandlers overrides the handlers behind /healthz and /readyz.
func WithHealthHandlers(h *HealthHandlers) Option {
	return func(cfg *routerConfig) {
		cfg.health = h
	}
}

func groupOption(name string, reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.groups[name] = reg
	}
}

// WithSpectrumRoutes mounts the spectrum program under /spectrum.
func WithSpectrumRoutes(reg RouteRegistrar) Option { return groupOption("spectrum", reg) }

// WithCanvasRoutes mounts the canvas program under /canvas.
func WithCanvasRoutes(reg RouteRegistrar) Option { return groupOption("canvas", reg) }

// WithMirrorRoutes mounts the mirror program under /mirror.
func WithMirrorRoutes(reg RouteRegistrar) Option { return groupOption("mirror", reg) }

// WithResponseRoutes mounts the response log under /responses.
func WithResponseRoutes(reg RouteRegistrar) Option { return groupOption("responses", reg) }

// WithStatsRoutes mounts participation stats under /stats.
func WithStatsRoutes(reg RouteRegistrar) Option { return groupOption("stats", reg) }

func writeRouteError(w http.ResponseWriter, req *http.Request, code, message string, status int) {
	httpx.WriteError(req.Context(), w, httpx.NewError(code, message, status))
}

func mountNotImplemented(r chi.Router, name string) {
	handler := func(w http.ResponseWriter, req *http.Request) {
		writeRouteError(w, req, "not_implemented", fmt.Sprintf("%s routes not implemented", name), http.StatusNotImplemented)
	}
	r.HandleFunc("/", handler)
	r.HandleFunc("/*", handler)
	r.NotFound(handler)
	r.MethodNotAllowed(handler)
}
