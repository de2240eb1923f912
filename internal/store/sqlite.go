package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/voxverify/voxverify/internal/domain"
	"github.com/voxverify/voxverify/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	writeMu sync.Mutex // Serializes transcript writes to prevent SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS transcripts (
		session_id TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		verified INTEGER NOT NULL DEFAULT 0,
		user_name TEXT,
		fields_json TEXT NOT NULL,
		history_json TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transcripts_saved ON transcripts(saved_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveTranscript creates or replaces the transcript for a session.
// Implements retry logic with exponential backoff to handle SQLITE_BUSY errors.
func (s *SQLiteStore) SaveTranscript(ctx context.Context, t *domain.Transcript) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		err := s.saveTranscriptOnce(ctx, t)
		if err == nil {
			return nil
		}

		if shared.IsSQLiteConflictError(err) {
			if i < maxRetries-1 {
				delay := baseDelay * time.Duration(1<<i) // exponential backoff: 100ms, 200ms, 400ms
				slog.Debug("SaveTranscript hit a busy database, retrying",
					"session_id", t.SessionID,
					"attempt", i+1,
					"delay", delay)
				time.Sleep(delay)
				continue
			}
		}

		// Non-retryable error or max retries exceeded
		return fmt.Errorf("failed to save transcript for %s after %d attempts: %w", t.SessionID, maxRetries, err)
	}

	return nil
}

// saveTranscriptOnce performs a single upsert attempt.
func (s *SQLiteStore) saveTranscriptOnce(ctx context.Context, t *domain.Transcript) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	fieldsJSON, err := json.Marshal(t.UserData)
	if err != nil {
		return fmt.Errorf("marshal user data: %w", err)
	}
	historyJSON, err := json.Marshal(t.History)
	if err != nil {
		return fmt.Errorf("marshal conversation history: %w", err)
	}

	query := `
	INSERT INTO transcripts (session_id, state, verified, user_name, fields_json, history_json, saved_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET
		state = excluded.state,
		verified = excluded.verified,
		user_name = excluded.user_name,
		fields_json = excluded.fields_json,
		history_json = excluded.history_json,
		saved_at = excluded.saved_at`

	var userName interface{}
	if name := t.UserData[domain.FieldName]; name != "" {
		userName = name
	}

	_, err = s.db.ExecContext(ctx, query,
		t.SessionID, string(t.State), t.Verified, userName,
		string(fieldsJSON), string(historyJSON), t.SavedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert transcript: %w", err)
	}
	return nil
}

// GetTranscript retrieves a transcript by session ID.
func (s *SQLiteStore) GetTranscript(ctx context.Context, sessionID string) (*domain.Transcript, error) {
	query := `
		SELECT session_id, state, verified, fields_json, history_json, saved_at
		FROM transcripts WHERE session_id = ?`

	row := s.db.QueryRowContext(ctx, query, sessionID)

	var t domain.Transcript
	var state string
	var fieldsJSON, historyJSON string
	var savedAt int64

	err := row.Scan(&t.SessionID, &state, &t.Verified, &fieldsJSON, &historyJSON, &savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan transcript row: %w", err)
	}

	t.State = domain.State(state)
	t.SavedAt = time.Unix(savedAt, 0)
	if err := json.Unmarshal([]byte(fieldsJSON), &t.UserData); err != nil {
		return nil, fmt.Errorf("unmarshal user data: %w", err)
	}
	if err := json.Unmarshal([]byte(historyJSON), &t.History); err != nil {
		return nil, fmt.Errorf("unmarshal conversation history: %w", err)
	}

	return &t, nil
}

// ListTranscripts returns summaries of all stored transcripts, newest first.
func (s *SQLiteStore) ListTranscripts(ctx context.Context) ([]*domain.TranscriptSummary, error) {
	query := `
		SELECT session_id, verified, user_name, saved_at
		FROM transcripts ORDER BY saved_at DESC, session_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close transcript rows", "error", closeErr)
		}
	}()

	var summaries []*domain.TranscriptSummary
	for rows.Next() {
		var summary domain.TranscriptSummary
		var userName sql.NullString
		var savedAt int64

		if err := rows.Scan(&summary.SessionID, &summary.Verified, &userName, &savedAt); err != nil {
			return nil, fmt.Errorf("scan transcript summary row: %w", err)
		}

		summary.UserName = userName.String
		summary.SavedAt = time.Unix(savedAt, 0)
		summaries = append(summaries, &summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}

	return summaries, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
