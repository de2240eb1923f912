// Package responder produces generative replies for the turns the
// deterministic dialogue hands off: exhausted retries, ambiguous
// confirmations, and conversation after completion.
package responder

import (
	"context"
	"errors"

	"github.com/voxverify/voxverify/internal/domain"
)

// ErrDisabled is returned by Disabled so the dialogue falls back to
// its deterministic reprompt.
var ErrDisabled = errors.New("generative responder disabled")

// Disabled stands in when no API credentials are configured.
type Disabled struct{}

// Respond always fails with ErrDisabled.
func (Disabled) Respond(context.Context, []domain.Message) (string, error) {
	return "", ErrDisabled
}
