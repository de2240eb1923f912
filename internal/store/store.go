// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/voxverify/voxverify/internal/domain"
)

// Repository defines the interface for persisting verification transcripts.
type Repository interface {
	// SaveTranscript creates or replaces the transcript for a session.
	SaveTranscript(ctx context.Context, t *domain.Transcript) error

	// GetTranscript retrieves a transcript by session ID.
	// Returns (nil, nil) when no transcript exists for the session.
	GetTranscript(ctx context.Context, sessionID string) (*domain.Transcript, error)

	// ListTranscripts returns summaries of all stored transcripts, newest first.
	ListTranscripts(ctx context.Context) ([]*domain.TranscriptSummary, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
