// SPDX-License-Identifier: Apache-2.0

// Package session holds per-user generation state
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kusari-oss/readmegen/internal/core/options"
)

// ErrNotFound is returned for unknown session ids
var ErrNotFound = errors.New("session not found")

// Session is the state of one user's generation attempts
type Session struct {
	ID        string                    `json:"id"`
	Generated bool                      `json:"generated"`
	Content   string                    `json:"content,omitempty"`
	Log       string                    `json:"log,omitempty"`
	Error     string                    `json:"error,omitempty"`
	Output    string                    `json:"output,omitempty"`
	Options   options.GenerationOptions `json:"options"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// New returns an empty session with a fresh id
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Succeed records generated content. Any previous error is cleared.
func (s *Session) Succeed(opts options.GenerationOptions, output, content, log string) {
	s.Generated = true
	s.Content = content
	s.Log = log
	s.Error = ""
	s.Output = output
	s.Options = opts.Redacted()
	s.UpdatedAt = time.Now().UTC()
}

// Fail records a user-visible failure and the captured log
func (s *Session) Fail(opts options.GenerationOptions, message, log string) {
	s.Generated = false
	s.Content = ""
	s.Log = log
	s.Error = message
	s.Output = ""
	s.Options = opts.Redacted()
	s.UpdatedAt = time.Now().UTC()
}

// Reset clears generation results, keeping the id
func (s *Session) Reset() {
	s.Generated = false
	s.Content = ""
	s.Log = ""
	s.Error = ""
	s.Output = ""
	s.Options = options.GenerationOptions{}
	s.UpdatedAt = time.Now().UTC()
}

// Store persists sessions
type Store interface {
	Create() (*Session, error)
	Get(id string) (*Session, error)
	Save(s *Session) error
	Delete(id string) error
	Reset(id string) (*Session, error)
}

// MemoryStore keeps sessions in process memory. Callers always receive copies.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Create adds a new empty session
func (m *MemoryStore) Create() (*Session, error) {
	s := New()
	m.mu.Lock()
	m.sessions[s.ID] = *s
	m.mu.Unlock()
	return s, nil
}

// Get returns a copy of the session with id
func (m *MemoryStore) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

// Save stores a copy of s
func (m *MemoryStore) Save(s *Session) error {
	if s == nil || s.ID == "" {
		return errors.New("session has no id")
	}
	m.mu.Lock()
	m.sessions[s.ID] = *s
	m.mu.Unlock()
	return nil
}

// Delete removes the session with id
func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Reset clears the results of the session with id
func (m *MemoryStore) Reset(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.Reset()
	m.sessions[id] = s
	return &s, nil
}

// Len returns the number of stored sessions
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
