// internal/handlers/api_server.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jason-s-yu/shithead/internal/config"
	"github.com/jason-s-yu/shithead/internal/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter wires every HTTP and WebSocket route of the game server.
func NewRouter(cfg *config.Config, logger *logrus.Logger, gs *GameServer) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.Heartbeat("/ping"))
	r.Use(middleware.LogMiddleware(logger))

	origins := []string{"https://*", "http://*"}
	if cfg.IsProduction() && len(cfg.AllowedOrigins) > 0 {
		origins = cfg.AllowedOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/user", func(r chi.Router) {
		r.Post("/create", CreateUserHandler(logger))
		r.Post("/login", LoginHandler(logger))
		r.Get("/me", MeHandler)
	})

	r.Route("/game", func(r chi.Router) {
		r.Post("/create", CreateGameHandler(gs))
		r.Get("/list", ListGamesHandler(gs))
		r.Get("/ws/{game_id}", GameWSHandler(logger, gs))
		r.Get("/{game_id}", GameStateHandler(gs))
	})

	return r
}
