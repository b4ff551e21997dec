package handlers

import (
	"net/http"
)

// Stats returns aggregate queue and job counts. Each section degrades to
// null when its backend is unreachable; the endpoint itself never fails on
// backend outage.
func (a *App) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := map[string]any{
		"queue": nil,
		"jobs":  nil,
	}

	if qs := a.Queue.Stats(ctx); qs.Available {
		resp["queue"] = qs
	}

	if js, err := a.Jobs.Stats(ctx); err == nil {
		resp["jobs"] = js
	} else {
		a.Logger.Warn().Err(err).Msg("stats: job stats unavailable")
	}

	a.json(w, http.StatusOK, resp)
}
