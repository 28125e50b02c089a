package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pokemania/pokemania/internal/api/handler"
	"github.com/pokemania/pokemania/internal/api/middleware"
	"github.com/pokemania/pokemania/internal/pokemon"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger      handler.DBPinger
	Version       string
	Repo          pokemon.Repository
	TeamSizeLimit int
	OpenAPISpec   []byte

	// Registry enables /metrics and HTTP instrumentation when set.
	Registry *prometheus.Registry
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	// Metrics wrap Recovery so requests that panic are counted as 500s.
	if deps.Registry != nil {
		r.Use(middleware.NewHTTPMetrics(deps.Registry).Handler)
	}
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))
	}

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.Repo != nil {
		pokemonHandler := handler.NewPokemonHandler(deps.Repo)
		teamHandler := handler.NewTeamHandler(deps.Repo, deps.TeamSizeLimit)

		r.Post("/pokemon", pokemonHandler.Create)
		r.Get("/pokemon/{id}", pokemonHandler.GetByID)

		r.Route("/trainers/{trainerID}", func(r chi.Router) {
			r.Get("/pokemon", pokemonHandler.ListByOwner)
			r.Get("/team", teamHandler.Get)
			r.Put("/team", teamHandler.Save)
		})
	}

	return r
}
