package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkraus/slovnik/internal/noteservice"
	"github.com/mkraus/slovnik/internal/speak"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, tts *speak.Client, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, tts)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Word notes.
	r.Get("/words", h.ListWords)
	r.Get("/words/*", h.GetWord)

	// Search.
	r.Get("/search", h.Search)

	// Batch ingestion of a vocabulary page.
	r.Post("/ingest", h.Ingest)

	// TTS proxy for !speak[...] markers.
	r.Get("/speak", h.Speak)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
