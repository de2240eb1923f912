// Package api provides HTTP handlers for the verification API.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/voxverify/voxverify/internal/audio"
	"github.com/voxverify/voxverify/internal/dialog"
	"github.com/voxverify/voxverify/internal/directory"
	"github.com/voxverify/voxverify/internal/events"
	"github.com/voxverify/voxverify/internal/live"
	"github.com/voxverify/voxverify/internal/session"
	"github.com/voxverify/voxverify/internal/store"
)

// Handler provides the verification endpoints and their shared
// dependencies.
type Handler struct {
	engine   *dialog.Engine
	sessions session.Store
	dir      *directory.Directory
	audio    *audio.Manager
	repo     store.Repository
	audioTTL time.Duration

	events *events.Publisher
	hub    *live.Hub
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(engine *dialog.Engine, sessions session.Store, dir *directory.Directory, audioMgr *audio.Manager, repo store.Repository, audioTTL time.Duration) *Handler {
	return &Handler{
		engine:   engine,
		sessions: sessions,
		dir:      dir,
		audio:    audioMgr,
		repo:     repo,
		audioTTL: audioTTL,
	}
}

// SetEvents sets the completion event publisher.
func (h *Handler) SetEvents(p *events.Publisher) {
	h.events = p
}

// SetHub sets the live conversation hub.
func (h *Handler) SetHub(hub *live.Hub) {
	h.hub = hub
}

// RegisterRoutes registers all verification API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/session/create", h.CreateSession)
		r.Post("/chat", h.Chat)
		r.Get("/session/{sessionID}", h.GetSession)
		r.Post("/session/{sessionID}/save", h.SaveSession)
		r.Get("/transcripts", h.ListTranscripts)
		r.Get("/transcript/{sessionID}", h.GetTranscript)
		r.Get("/employers", h.GetEmployers)
		r.Get("/audio/{filename}", h.GetAudio)
		r.Delete("/audio/{filename}", h.DeleteAudio)
		r.Post("/cleanup/audio", h.CleanupAudio)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
