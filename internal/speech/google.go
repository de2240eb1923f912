package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultTTSBase = "https://translate.google.com/translate_tts"

// GoogleSynthesizer fetches speech from the Google Translate TTS
// endpoint. Requests carry the tw-ob client token the endpoint expects
// from unauthenticated callers.
type GoogleSynthesizer struct {
	baseURL string
	lang    string
	client  *http.Client
}

// NewGoogleSynthesizer builds a synthesizer speaking the given
// language code. An empty code defaults to English.
func NewGoogleSynthesizer(lang string) *GoogleSynthesizer {
	if lang == "" {
		lang = "en"
	}
	return &GoogleSynthesizer{
		baseURL: defaultTTSBase,
		lang:    lang,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Synthesize fetches MP3 bytes for text.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", g.lang)
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tts audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts endpoint returned status %d", resp.StatusCode)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts audio: %w", err)
	}
	return audio, nil
}
