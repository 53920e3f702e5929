package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes wires the handlers into a chi router
func (h *Handlers) Routes(corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", h.Page)
	r.Post("/select", h.Select)

	r.Route("/api", func(r chi.Router) {
		r.Get("/sports", h.GetSports)
		r.Get("/state", h.GetState)
		r.Post("/sport", h.SelectSport)
		r.Post("/league", h.SelectLeague)
		r.Post("/game", h.SelectGame)

		r.Get("/alerts", h.GetAlerts)
		r.Post("/alerts", h.StartAlert)
		r.Delete("/alerts/{alertID}", h.CancelAlert)
	})

	return r
}
