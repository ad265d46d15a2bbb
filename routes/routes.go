package routes

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/pingpong-tournament/handlers"
	"github.com/Dosada05/pingpong-tournament/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Players  *handlers.PlayerHandler
	Groups   *handlers.GroupHandler
	Matches  *handlers.MatchHandler
	Playoffs *handlers.PlayoffHandler
	Exports  *handlers.ExportHandler
	OpenAPI  http.HandlerFunc
}

func SetupRoutes(router chi.Router, logger *slog.Logger, allowedOrigins []string, h Handlers) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.StructuredLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	router.Get("/healthz", h.Health.Healthz)
	router.Get("/openapi.json", h.OpenAPI)
	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusMovedPermanently)
	})
	router.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/openapi.json")))

	router.Route("/api", func(r chi.Router) {
		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.Players.ListPlayers)
			r.Post("/", h.Players.CreatePlayer)
			r.Delete("/{playerID}", h.Players.DeletePlayer)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", h.Groups.ListGroups)
			r.Post("/assign", h.Groups.AssignGroups)
			r.Get("/{groupID}/players", h.Groups.ListGroupPlayers)
			r.Get("/{groupID}/standings", h.Groups.GroupStandings)
		})
		r.Get("/standings", h.Groups.AllStandings)

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", h.Matches.ListMatches)
			r.Post("/generate", h.Matches.GenerateMatches)
			r.Get("/{matchID}", h.Matches.GetMatch)
			r.Get("/{matchID}/score", h.Matches.GetScore)
			r.Put("/{matchID}/score", h.Matches.RecordScore)
		})
		r.Get("/schedule", h.Matches.Schedule)

		r.Route("/playoffs", func(r chi.Router) {
			r.Get("/", h.Playoffs.ListPlayoffMatches)
			r.Get("/bracket", h.Playoffs.Bracket)
			r.Post("/generate", h.Playoffs.GeneratePlayoffs)
		})

		r.Post("/exports", h.Exports.CreateExport)
	})
}
