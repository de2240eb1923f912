//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"net/http"
	"testing"
)

func TestListTranscripts(t *testing.T) {
	env := newTestEnv(t)
	sessionID := createSession(t, env)
	completeVerification(t, env, sessionID)

	rr := do(t, env, http.MethodGet, "/api/transcripts", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	got := decode(t, rr)

	if got["count"].(float64) != 1 {
		t.Errorf("Expected 1 transcript, got %v", got["count"])
	}
	transcripts, _ := got["transcripts"].([]interface{})
	if len(transcripts) != 1 {
		t.Fatalf("Expected 1 transcript entry, got %d", len(transcripts))
	}
	entry, _ := transcripts[0].(map[string]interface{})
	if entry["session_id"] != sessionID {
		t.Errorf("Expected session %q, got %v", sessionID, entry["session_id"])
	}
	if entry["user_name"] != "Jane Smith" {
		t.Errorf("Expected user name, got %v", entry["user_name"])
	}
}

func TestGetTranscript(t *testing.T) {
	env := newTestEnv(t)
	sessionID := createSession(t, env)
	completeVerification(t, env, sessionID)

	rr := do(t, env, http.MethodGet, "/api/transcript/"+sessionID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	got := decode(t, rr)

	if got["verified"] != true {
		t.Errorf("Expected verified transcript, got %v", got["verified"])
	}
	userData, _ := got["user_data"].(map[string]interface{})
	if userData["company_name"] != "Global Solutions Ltd" {
		t.Errorf("Expected resolved company, got %v", userData["company_name"])
	}
	history, _ := got["conversation_history"].([]interface{})
	if len(history) == 0 {
		t.Error("Expected conversation history in transcript")
	}
}

func TestGetTranscriptMissing(t *testing.T) {
	env := newTestEnv(t)

	rr := do(t, env, http.MethodGet, "/api/transcript/missing", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestGetEmployers(t *testing.T) {
	env := newTestEnv(t)

	rr := do(t, env, http.MethodGet, "/api/employers", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	got := decode(t, rr)

	if got["count"].(float64) != 4 {
		t.Errorf("Expected 4 companies, got %v", got["count"])
	}
	companies, _ := got["companies"].([]interface{})
	if len(companies) != 4 || companies[0] != "Tech Innovations Inc" {
		t.Errorf("unexpected companies %v", companies)
	}
}
