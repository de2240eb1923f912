package domain

import "time"

// Transcript is the durable record of a finished (or saved) session.
type Transcript struct {
	SessionID string            `json:"session_id"`
	State     State             `json:"state"`
	Verified  bool              `json:"verified"`
	UserData  map[string]string `json:"user_data"`
	History   []Message         `json:"conversation_history"`
	SavedAt   time.Time         `json:"timestamp"`
}

// TranscriptSummary is the listing view of a stored transcript.
type TranscriptSummary struct {
	SessionID string    `json:"session_id"`
	Verified  bool      `json:"verified"`
	UserName  string    `json:"user_name"`
	SavedAt   time.Time `json:"timestamp"`
}

// TranscriptOf captures a session's durable view at save time.
func TranscriptOf(s *Session) *Transcript {
	data := make(map[string]string, len(s.Fields))
	for k, v := range s.Fields {
		data[k] = v
	}
	return &Transcript{
		SessionID: s.ID,
		State:     s.State,
		Verified:  s.Verified,
		UserData:  data,
		History:   append([]Message(nil), s.History...),
		SavedAt:   time.Now(),
	}
}
