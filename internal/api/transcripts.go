package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListTranscripts returns summaries of all saved transcripts.
func (h *Handler) ListTranscripts(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.repo.ListTranscripts(r.Context())
	if err != nil {
		slog.Error("Failed to list transcripts", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to list transcripts")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"transcripts": summaries,
		"count":       len(summaries),
	})
}

// GetTranscript returns one saved transcript in full.
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	transcript, err := h.repo.GetTranscript(r.Context(), sessionID)
	if err != nil {
		slog.Error("Failed to load transcript", "error", err, "session_id", sessionID)
		Error(w, http.StatusInternalServerError, "Failed to load transcript")
		return
	}
	if transcript == nil {
		Error(w, http.StatusNotFound, "Transcript not found")
		return
	}

	JSON(w, http.StatusOK, transcript)
}
