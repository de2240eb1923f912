// Package speech converts reply text into spoken audio.
package speech

import "context"

// Synthesizer produces MP3 audio for a piece of text. Implementations
// must be safe for concurrent use; every turn synthesizes its reply.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
