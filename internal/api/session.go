package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/voxverify/voxverify/internal/domain"
	"github.com/voxverify/voxverify/internal/events"
	"github.com/voxverify/voxverify/internal/live"
	"github.com/voxverify/voxverify/internal/session"
)

// turnLocks prevents concurrent turns against the same session.
var turnLocks sync.Map

type createRequest struct {
	SessionID string `json:"session_id"`
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type agentResponse struct {
	SessionID   string   `json:"session_id"`
	Message     string   `json:"message"`
	AudioURL    string   `json:"audio_url,omitempty"`
	State       string   `json:"state"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type sessionResponse struct {
	SessionID  string            `json:"session_id"`
	State      string            `json:"state"`
	UserData   map[string]string `json:"user_data"`
	Verified   bool              `json:"verified"`
	History    []domain.Message  `json:"conversation_history"`
	Candidates []string          `json:"pending_candidates,omitempty"`
}

// CreateSession starts a fresh verification dialogue and returns the
// opening greeting. Clients may bring their own session id; reusing an
// id restarts that dialogue from scratch.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	} else if !session.ValidID(sessionID) {
		Error(w, http.StatusBadRequest, "invalid session_id")
		return
	}
	result := h.engine.StartSession(sessionID)

	audioURL := h.synthesize(r.Context(), sessionID, result.Reply)
	h.publishLive(sessionID, domain.RoleAssistant, result.Reply, result.State)

	JSON(w, http.StatusOK, agentResponse{
		SessionID: sessionID,
		Message:   result.Reply,
		AudioURL:  audioURL,
		State:     string(result.State),
	})
}

// Chat processes one user turn.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		Error(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if !session.ValidID(req.SessionID) {
		Error(w, http.StatusBadRequest, "invalid session_id")
		return
	}

	// Serialize turns per session; a second concurrent turn is refused
	// rather than queued.
	lock, _ := turnLocks.LoadOrStore(req.SessionID, &sync.Mutex{})
	mutex := lock.(*sync.Mutex)
	if !mutex.TryLock() {
		slog.Warn("Turn already in progress", "session_id", req.SessionID)
		Error(w, http.StatusConflict, "turn_in_progress")
		return
	}
	defer func() {
		mutex.Unlock()
		turnLocks.Delete(req.SessionID)
	}()

	result, err := h.engine.Turn(r.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			Error(w, http.StatusNotFound, "Session not found")
			return
		}
		slog.Error("Failed to process turn", "error", err, "session_id", req.SessionID)
		Error(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	audioURL := h.synthesize(r.Context(), req.SessionID, result.Reply)
	h.publishLive(req.SessionID, domain.RoleUser, req.Message, result.State)
	h.publishLive(req.SessionID, domain.RoleAssistant, result.Reply, result.State)

	if result.Completed {
		h.persistCompletion(r.Context(), req.SessionID)
	}

	JSON(w, http.StatusOK, agentResponse{
		SessionID:   req.SessionID,
		Message:     result.Reply,
		AudioURL:    audioURL,
		State:       string(result.State),
		Suggestions: result.Candidates,
	})
}

// GetSession returns the current state of a dialogue.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.sessions.Snapshot(sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			Error(w, http.StatusNotFound, "Session not found")
			return
		}
		slog.Error("Failed to load session", "error", err, "session_id", sessionID)
		Error(w, http.StatusInternalServerError, "Failed to load session")
		return
	}

	JSON(w, http.StatusOK, sessionResponse{
		SessionID:  sess.ID,
		State:      string(sess.State),
		UserData:   sess.Fields,
		Verified:   sess.Verified,
		History:    sess.History,
		Candidates: sess.Candidates,
	})
}

// SaveSession persists the session transcript on demand. Saving twice
// replaces the earlier record.
func (h *Handler) SaveSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.sessions.Snapshot(sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			Error(w, http.StatusNotFound, "Session not found")
			return
		}
		slog.Error("Failed to load session", "error", err, "session_id", sessionID)
		Error(w, http.StatusInternalServerError, "Failed to load session")
		return
	}

	if err := h.repo.SaveTranscript(r.Context(), domain.TranscriptOf(sess)); err != nil {
		slog.Error("Failed to save transcript", "error", err, "session_id", sessionID)
		Error(w, http.StatusInternalServerError, "Failed to save transcript")
		return
	}

	JSON(w, http.StatusOK, map[string]string{
		"message":    "Transcript saved",
		"session_id": sessionID,
	})
}

// synthesize renders the reply to audio and returns its URL. Synthesis
// trouble never fails the turn; the reply goes out text-only.
func (h *Handler) synthesize(ctx context.Context, sessionID, text string) string {
	art, err := h.audio.Synthesize(ctx, sessionID, text)
	if err != nil {
		slog.Warn("Speech synthesis failed, sending text-only reply", "error", err, "session_id", sessionID)
		return ""
	}
	return art.Ref()
}

func (h *Handler) publishLive(sessionID, role, message string, state domain.State) {
	if h.hub == nil {
		return
	}
	h.hub.Publish(live.Event{
		SessionID: sessionID,
		Role:      role,
		Message:   message,
		State:     string(state),
		At:        time.Now(),
	})
}

// persistCompletion stores the transcript and announces the completed
// verification. Neither failure mode fails the turn that finished the
// dialogue.
func (h *Handler) persistCompletion(ctx context.Context, sessionID string) {
	sess, err := h.sessions.Snapshot(sessionID)
	if err != nil {
		slog.Error("Failed to snapshot completed session", "error", err, "session_id", sessionID)
		return
	}

	transcript := domain.TranscriptOf(sess)
	if err := h.repo.SaveTranscript(ctx, transcript); err != nil {
		slog.Error("Failed to persist transcript", "error", err, "session_id", sessionID)
	}

	if h.events == nil {
		return
	}
	event := events.CompletedEvent{
		SessionID:   sess.ID,
		Verified:    sess.Verified,
		CompanyName: sess.Fields[domain.FieldCompany],
		UserData:    transcript.UserData,
		CompletedAt: transcript.SavedAt,
	}
	if err := h.events.PublishCompleted(ctx, event); err != nil {
		slog.Warn("Failed to publish completion event", "error", err, "session_id", sessionID)
	}
}
