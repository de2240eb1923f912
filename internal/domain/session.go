// Package domain contains core domain types for the verification service.
package domain

import (
	"strings"
	"time"
)

// Field keys under which collected values are stored on a session.
const (
	FieldName           = "name"
	FieldFirstName      = "first_name"
	FieldExperience     = "years_of_experience"
	FieldDOB            = "date_of_birth"
	FieldEmail          = "email"
	FieldCompany        = "company_name"
	FieldRecordCompany  = "record_company"
	FieldPendingCompany = "pending_company"
)

// Message roles as they appear in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation history entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session holds the full state of one verification conversation.
// Fields grow monotonically; values are only added or overwritten on
// correction, never removed. RetryCounts tracks consecutive rejected
// inputs per field and resets on that field's first success.
type Session struct {
	ID          string
	State       State
	Fields      map[string]string
	RetryCounts map[string]int
	History     []Message
	Candidates  []string
	Verified    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSession creates a fresh session in the greeting state.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:          id,
		State:       StateGreeting,
		Fields:      make(map[string]string),
		RetryCounts: make(map[string]int),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AppendMessage records a conversation entry and touches the session.
func (s *Session) AppendMessage(role, content string) {
	s.History = append(s.History, Message{Role: role, Content: content})
	s.UpdatedAt = time.Now()
}

// FirstName returns the caller's first name. The state machine
// guarantees it is set before any state that personalizes a prompt.
func (s *Session) FirstName() string {
	return s.Fields[FieldFirstName]
}

// SetName stores the full name and derives the first name from it.
func (s *Session) SetName(full string) {
	s.Fields[FieldName] = full
	s.Fields[FieldFirstName] = strings.Fields(full)[0]
}

// Clone returns a deep copy safe to hand out while the original keeps
// being mutated by turn processing.
func (s *Session) Clone() *Session {
	c := *s
	c.Fields = make(map[string]string, len(s.Fields))
	for k, v := range s.Fields {
		c.Fields[k] = v
	}
	c.RetryCounts = make(map[string]int, len(s.RetryCounts))
	for k, v := range s.RetryCounts {
		c.RetryCounts[k] = v
	}
	c.History = append([]Message(nil), s.History...)
	c.Candidates = append([]string(nil), s.Candidates...)
	return &c
}
