/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address behind a proxy
  3. Logger:     zap request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for a separately served frontend

ROUTE GROUPS:
  /api/state, /api/totals, /api/reset   Reconciliation state
  /api/lists/*                          List editors
  /api/calculator/*                     Calculator sessions
  /api/scenarios/*                      Demo scenarios
  /*                                    App shell through the offline asset cache

SECURITY NOTE:
  No authentication. The server is meant to run on the register itself.

SEE ALSO:
  - handlers.go: Handler implementations
  - assetcache: the catch-all asset handler
  - cmd/caixa/serve.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
	// Assets serves everything outside /api. Nil answers 404.
	Assets http.Handler
	Logger *zap.Logger
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.GetState)
		r.Get("/totals", h.GetTotals)
		r.Post("/reset", h.ResetAll)

		// List editor routes
		r.Route("/lists/{category}", func(r chi.Router) {
			r.Put("/", h.ReplaceList)
			r.Post("/entries", h.AddEntry)
			r.Delete("/entries/{index}", h.RemoveEntry)
		})

		// Calculator routes
		r.Route("/calculator/sessions", func(r chi.Router) {
			r.Post("/", h.CreateCalculatorSession)
			r.Get("/{id}", h.GetCalculatorSession)
			r.Post("/{id}/keys", h.PressKeys)
			r.Post("/{id}/commit", h.CommitCalculator)
			r.Delete("/{id}", h.CloseCalculatorSession)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	// App shell and static assets, cache first
	if opts.Assets != nil {
		r.Handle("/*", opts.Assets)
	}

	return r
}
