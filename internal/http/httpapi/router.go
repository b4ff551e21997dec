package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"postforge/internal/http/handlers"
	ownmiddleware "postforge/internal/middleware"
)

func NewRouter(app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(ownmiddleware.RequestID, middleware.RealIP, middleware.Recoverer, ownmiddleware.Logger(app.Logger))

	r.Get("/healthz", app.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/requests", func(r chi.Router) {
			r.Post("/", app.Submit)
			r.Get("/{id}", app.Status)
		})
		r.Get("/stats", app.Stats)
	})

	return r
}
