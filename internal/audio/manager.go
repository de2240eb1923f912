// Package audio owns the lifecycle of synthesized speech artifacts:
// creation, tracking, and eventual deletion. Every artifact is either
// deleted exactly once or stays tracked; the manager itself never
// deletes on a schedule of its own.
package audio

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxverify/voxverify/internal/domain"
	"github.com/voxverify/voxverify/internal/metrics"
	"github.com/voxverify/voxverify/internal/speech"
)

// Manager synthesizes and tracks audio artifacts under one directory.
type Manager struct {
	synth   speech.Synthesizer
	dir     string
	metrics *metrics.Metrics

	mu      sync.Mutex
	tracked map[string]*domain.Artifact
}

// NewManager creates the audio directory and a manager over it.
func NewManager(synth speech.Synthesizer, dir string, m *metrics.Metrics) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	if m == nil {
		m = metrics.Default
	}
	return &Manager{
		synth:   synth,
		dir:     dir,
		metrics: m,
		tracked: make(map[string]*domain.Artifact),
	}, nil
}

// Synthesize renders text to a tracked MP3 artifact for the session.
func (m *Manager) Synthesize(ctx context.Context, sessionID, text string) (*domain.Artifact, error) {
	audio, err := m.synth.Synthesize(ctx, text)
	if err != nil {
		m.metrics.RecordSynthesisError()
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}

	u := uuid.New()
	name := fmt.Sprintf("%s_%s.mp3", sessionID, hex.EncodeToString(u[:4]))
	path := filepath.Join(m.dir, name)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return nil, fmt.Errorf("write audio file: %w", err)
	}

	art := &domain.Artifact{
		SessionID: sessionID,
		Name:      name,
		Path:      path,
		CreatedAt: time.Now(),
	}
	m.mu.Lock()
	m.tracked[name] = art
	m.mu.Unlock()
	m.metrics.RecordArtifactCreated()
	return art, nil
}

// Lookup returns the tracked artifact for name.
func (m *Manager) Lookup(name string) (*domain.Artifact, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	art, ok := m.tracked[name]
	return art, ok
}

// ScheduleDeletion arranges deletion after delay without blocking the
// caller. Deleting a name that is already gone is a no-op.
func (m *Manager) ScheduleDeletion(name string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		if m.DeleteNow(name) {
			slog.Debug("scheduled audio cleanup", "file", name)
		}
	})
}

// DeleteNow removes the artifact immediately, reporting whether this
// call deleted it. Untracked names return false with no error, so
// manual and scheduled deletion can race freely.
func (m *Manager) DeleteNow(name string) bool {
	m.mu.Lock()
	art, ok := m.tracked[name]
	if ok {
		delete(m.tracked, name)
	}
	m.mu.Unlock()
	if !ok {
		return false
	}

	if err := os.Remove(art.Path); err != nil && !os.IsNotExist(err) {
		// Still on disk: keep tracking it so a later sweep retries.
		m.mu.Lock()
		m.tracked[name] = art
		m.mu.Unlock()
		slog.Warn("audio delete failed", "file", name, "error", err)
		return false
	}
	m.metrics.RecordArtifactDeleted()
	return true
}

// DeleteAll removes every tracked artifact, returning how many were
// deleted and how many remain tracked.
func (m *Manager) DeleteAll() (deleted, remaining int) {
	m.mu.Lock()
	names := make([]string, 0, len(m.tracked))
	for name := range m.tracked {
		names = append(names, name)
	}
	m.mu.Unlock()

	for _, name := range names {
		if m.DeleteNow(name) {
			deleted++
		}
	}
	return deleted, m.Count()
}

// Count returns the number of tracked artifacts.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tracked)
}

// olderThan lists artifacts created before the age cutoff.
func (m *Manager) olderThan(age time.Duration) []string {
	cutoff := time.Now().Add(-age)
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name, art := range m.tracked {
		if art.CreatedAt.Before(cutoff) {
			names = append(names, name)
		}
	}
	return names
}
