package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoogleSynthesizerFetchesAudio(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	g := &GoogleSynthesizer{baseURL: srv.URL, lang: "en", client: srv.Client()}
	audio, err := g.Synthesize(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q", audio)
	}
	req, _ := http.NewRequest(http.MethodGet, "/?"+gotQuery, nil)
	if q := req.URL.Query().Get("q"); q != "hello there" {
		t.Errorf("text param = %q", q)
	}
	if tl := req.URL.Query().Get("tl"); tl != "en" {
		t.Errorf("lang param = %q", tl)
	}
}

func TestGoogleSynthesizerUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := &GoogleSynthesizer{baseURL: srv.URL, lang: "en", client: srv.Client()}
	if _, err := g.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestNewGoogleSynthesizerDefaultsLanguage(t *testing.T) {
	g := NewGoogleSynthesizer("")
	if g.lang != "en" {
		t.Errorf("lang = %q, want en", g.lang)
	}
}
