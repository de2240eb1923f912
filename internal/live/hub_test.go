package live

import (
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func event(sessionID, message string) Event {
	return Event{
		SessionID: sessionID,
		Role:      "assistant",
		Message:   message,
		State:     "GREETING",
		At:        time.Now(),
	}
}

func TestSubscribeReceivesPublished(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("sess1")
	defer cancel()

	hub.Publish(event("sess1", "hello"))

	select {
	case e := <-events:
		if e.Message != "hello" {
			t.Errorf("expected message %q, got %q", "hello", e.Message)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSessionFilter(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("sess1")
	defer cancel()

	hub.Publish(event("other", "not for you"))
	hub.Publish(event("sess1", "for you"))

	select {
	case e := <-events:
		if e.SessionID != "sess1" || e.Message != "for you" {
			t.Errorf("unexpected event: %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	select {
	case e := <-events:
		t.Errorf("expected no further events, got %+v", e)
	default:
	}
}

func TestEmptySessionReceivesAll(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("")
	defer cancel()

	hub.Publish(event("a", "first"))
	hub.Publish(event("b", "second"))

	got := []string{(<-events).SessionID, (<-events).SessionID}
	if got[0] != "a" || got[1] != "b" {
		t.Errorf("expected events from both sessions in order, got %v", got)
	}
}

func TestLateJoinerGetsReplay(t *testing.T) {
	hub := NewHub()

	hub.Publish(event("sess1", "one"))
	hub.Publish(event("sess1", "two"))
	hub.Publish(event("other", "ignored"))

	events, cancel := hub.Subscribe("sess1")
	defer cancel()

	first := <-events
	second := <-events
	if first.Message != "one" || second.Message != "two" {
		t.Errorf("expected replay in publish order, got %q then %q", first.Message, second.Message)
	}
	select {
	case e := <-events:
		t.Errorf("expected replay to respect session filter, got %+v", e)
	default:
	}
}

func TestReplayBounded(t *testing.T) {
	hub := NewHub()

	total := replayLimit + 10
	for i := 0; i < total; i++ {
		hub.Publish(event("sess1", "m"+strconv.Itoa(i)))
	}

	events, cancel := hub.Subscribe("")
	defer cancel()

	var got []string
	for {
		select {
		case e := <-events:
			got = append(got, e.Message)
			continue
		default:
		}
		break
	}

	if len(got) != replayLimit {
		t.Fatalf("expected %d replayed events, got %d", replayLimit, len(got))
	}
	if got[0] != "m10" {
		t.Errorf("expected oldest replayed event m10, got %q", got[0])
	}
	if got[len(got)-1] != "m"+strconv.Itoa(total-1) {
		t.Errorf("expected newest replayed event last, got %q", got[len(got)-1])
	}
}

func TestSlowSubscriberDropsOldest(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("sess1")
	defer cancel()

	total := subCap + 6
	for i := 0; i < total; i++ {
		hub.Publish(event("sess1", "m"+strconv.Itoa(i)))
	}

	var got []string
	for {
		select {
		case e := <-events:
			got = append(got, e.Message)
			continue
		default:
		}
		break
	}

	if len(got) != subCap {
		t.Fatalf("expected buffer capped at %d events, got %d", subCap, len(got))
	}
	if got[0] != "m6" {
		t.Errorf("expected oldest events dropped, first remaining %q", got[0])
	}
}

func TestCancelClosesChannel(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("sess1")

	cancel()
	if hub.SubscriberCount() != 0 {
		t.Errorf("expected no subscribers after cancel, got %d", hub.SubscriberCount())
	}

	// Publishing after cancel must not panic on the closed channel.
	hub.Publish(event("sess1", "late"))

	if _, ok := <-events; ok {
		t.Error("expected channel closed after cancel")
	}

	// A second cancel is a no-op.
	cancel()
}

func TestCheckOriginDevAllowsAnything(t *testing.T) {
	h := NewSocketHandler(NewHub(), "https://verify.example.com", true)

	r := httptest.NewRequest("GET", "/ws/conversation", nil)
	r.Header.Set("Origin", "https://evil.example.com")
	if !h.checkOrigin(r) {
		t.Error("expected dev mode to allow any origin")
	}
}

func TestCheckOriginMatchesAllowed(t *testing.T) {
	h := NewSocketHandler(NewHub(), "https://verify.example.com", false)

	r := httptest.NewRequest("GET", "/ws/conversation", nil)
	r.Header.Set("Origin", "https://verify.example.com")
	if !h.checkOrigin(r) {
		t.Error("expected allowed origin to pass")
	}

	r.Header.Set("Origin", "https://evil.example.com")
	if h.checkOrigin(r) {
		t.Error("expected mismatched origin to be rejected")
	}
}

func TestCheckOriginWildcard(t *testing.T) {
	h := NewSocketHandler(NewHub(), "*", false)

	r := httptest.NewRequest("GET", "/ws/conversation", nil)
	r.Header.Set("Origin", "https://anywhere.example.com")
	if !h.checkOrigin(r) {
		t.Error("expected wildcard to allow any origin")
	}
}
