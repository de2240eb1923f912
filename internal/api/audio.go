package api

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// GetAudio serves a synthesized reply and schedules its deletion, so
// artifacts survive just long enough to be played.
func (h *Handler) GetAudio(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" || filepath.Base(filename) != filename {
		Error(w, http.StatusBadRequest, "invalid filename")
		return
	}

	art, ok := h.audio.Lookup(filename)
	if !ok {
		Error(w, http.StatusNotFound, "Audio file not found")
		return
	}

	h.audio.ScheduleDeletion(filename, h.audioTTL)

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, art.Path)
}

// DeleteAudio removes an artifact immediately. Deleting an unknown or
// already-deleted file succeeds, so clients can fire and forget.
func (h *Handler) DeleteAudio(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" || filepath.Base(filename) != filename {
		Error(w, http.StatusBadRequest, "invalid filename")
		return
	}

	if h.audio.DeleteNow(filename) {
		JSON(w, http.StatusOK, map[string]string{"message": "Audio file deleted"})
		return
	}
	JSON(w, http.StatusOK, map[string]string{"message": "Audio file already deleted"})
}

// CleanupAudio removes every tracked artifact.
func (h *Handler) CleanupAudio(w http.ResponseWriter, r *http.Request) {
	deleted, remaining := h.audio.DeleteAll()
	JSON(w, http.StatusOK, map[string]interface{}{
		"message":         "Cleanup completed",
		"deleted":         deleted,
		"remaining_files": remaining,
	})
}
