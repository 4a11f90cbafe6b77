package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spotvoice/internal/middleware"
)

type RouterDeps struct {
	Logger *slog.Logger
	Copy   *CopyHandler
}

// NewRouter собирает chi-роутер с общими middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/copy", deps.Copy.Create)
		r.Get("/copy/{id}", deps.Copy.Get)
		r.Post("/voice/check", deps.Copy.Check)
	})

	return r
}
