package handlers

import (
	"encoding/json"
	"net/http"

	"postforge/internal/domain"
	"postforge/internal/infra"
	"postforge/internal/queue"
	"postforge/internal/reconcile"
)

// App carries the handler dependencies. Everything is injected at startup;
// handlers hold no global state.
type App struct {
	Queue    queue.Queue
	Resolver *reconcile.Resolver
	Jobs     domain.JobRepository
	Drafts   domain.DraftRepository
	Logger   infra.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error":   errCode,
		"message": message,
	})
}
