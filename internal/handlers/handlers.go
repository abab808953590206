// Package handlers contains the HTTP handlers for the registration portal:
// the public registration surface, the admin dashboard API and the partner
// read API.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"summitreg/internal/badge"
	"summitreg/internal/config"
	"summitreg/internal/jobs"
	"summitreg/internal/mailer"
	"summitreg/internal/middleware"
)

// Package-level collaborators, wired once from main before the router is
// built.
var (
	Cfg      config.Config
	Tokens   *middleware.Tokens
	Mail     *mailer.Mailer
	Renderer *badge.Renderer
	Progress *jobs.RedisProgress
	Source   jobs.BadgeSource
	Log      *slog.Logger
)

func Configure(cfg config.Config, tokens *middleware.Tokens, mail *mailer.Mailer,
	renderer *badge.Renderer, progress *jobs.RedisProgress, source jobs.BadgeSource, log *slog.Logger) {
	Cfg = cfg
	Tokens = tokens
	Mail = mail
	Renderer = renderer
	Progress = progress
	Source = source
	Log = log
	if Log == nil {
		Log = slog.Default()
	}
}

func writeJSONResp(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONResp(w, status, map[string]any{"error": msg})
}

func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
