//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// greetingArtifact creates a session and returns the artifact name its
// greeting was synthesized to.
func greetingArtifact(t *testing.T, env *testEnv) string {
	t.Helper()
	rr := do(t, env, http.MethodPost, "/api/session/create", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("create session: status %d", rr.Code)
	}
	got := decode(t, rr)
	audioURL, _ := got["audio_url"].(string)
	name := strings.TrimPrefix(audioURL, "/api/audio/")
	if name == "" || name == audioURL {
		t.Fatalf("unexpected audio URL %q", audioURL)
	}
	return name
}

func TestGetAudioServesArtifact(t *testing.T) {
	env := newTestEnv(t)
	name := greetingArtifact(t, env)

	rr := do(t, env, http.MethodGet, "/api/audio/"+name, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("Expected audio/mpeg, got %q", ct)
	}
	if rr.Body.String() != "ID3 mock audio" {
		t.Errorf("unexpected audio body %q", rr.Body.String())
	}
}

func TestGetAudioSchedulesDeletion(t *testing.T) {
	env := newTestEnv(t)
	name := greetingArtifact(t, env)

	rr := do(t, env, http.MethodGet, "/api/audio/"+name, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := env.manager.Lookup(name); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("artifact still tracked after TTL")
		}
		time.Sleep(10 * time.Millisecond)
	}

	rr = do(t, env, http.MethodGet, "/api/audio/"+name, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after cleanup, got %d", rr.Code)
	}
}

func TestGetAudioUnknown(t *testing.T) {
	env := newTestEnv(t)

	rr := do(t, env, http.MethodGet, "/api/audio/nope.mp3", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestGetAudioRejectsPathTraversal(t *testing.T) {
	env := newTestEnv(t)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("filename", "../secret.mp3")
	req := httptest.NewRequest(http.MethodGet, "/api/audio/x", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()
	env.handler.GetAudio(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestDeleteAudioIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	name := greetingArtifact(t, env)

	rr := do(t, env, http.MethodDelete, "/api/audio/"+name, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if got := decode(t, rr); got["message"] != "Audio file deleted" {
		t.Errorf("unexpected message %v", got["message"])
	}

	rr = do(t, env, http.MethodDelete, "/api/audio/"+name, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on repeat delete, got %d", rr.Code)
	}
	if got := decode(t, rr); got["message"] != "Audio file already deleted" {
		t.Errorf("unexpected message %v", got["message"])
	}
}

func TestCleanupAudio(t *testing.T) {
	env := newTestEnv(t)
	greetingArtifact(t, env)
	greetingArtifact(t, env)

	rr := do(t, env, http.MethodPost, "/api/cleanup/audio", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	got := decode(t, rr)

	if got["deleted"].(float64) != 2 {
		t.Errorf("Expected 2 deleted, got %v", got["deleted"])
	}
	if got["remaining_files"].(float64) != 0 {
		t.Errorf("Expected 0 remaining, got %v", got["remaining_files"])
	}
	if env.manager.Count() != 0 {
		t.Errorf("Expected no tracked artifacts, got %d", env.manager.Count())
	}
}
