package domain

import "time"

// Artifact is one synthesized-speech file tied to a single reply.
// The audio manager owns it from creation until deletion.
type Artifact struct {
	SessionID string
	Name      string
	Path      string
	CreatedAt time.Time
}

// Ref returns the public URL path under which the artifact is served.
func (a *Artifact) Ref() string {
	return "/api/audio/" + a.Name
}
