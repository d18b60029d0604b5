// Package web exposes hub sessions as a small JSON API.
package web

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/tictactoe/internal/hub"
)

const (
	defaultWait = 5 * time.Second
	maxWait     = 30 * time.Second
	maxBodySize = 1 << 10
)

// NewServer wires routes and returns an http.Handler.
func NewServer(h *hub.Hub, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	hs := &handlers{hub: h, logger: logger}
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", hs.create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", hs.view)
			r.Delete("/", hs.remove)
			r.Post("/moves", hs.move)
			r.Post("/undo", hs.undo)
			r.Post("/reset", hs.reset)
			r.Put("/difficulty", hs.difficulty)
			r.Get("/events", hs.events)
		})
	})
	return r
}

// requestLogger logs one line per request.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
