// Package settings keeps each session's user settings in memory.
package settings

import (
	"fmt"
	"sync"

	model "github.com/gtanav/assistant/backend/internal/model/settings"
)

// Store maps session ids to settings. Sessions without a saved record see
// the defaults.
type Store struct {
	mu    sync.RWMutex
	items map[string]model.Settings
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{items: make(map[string]model.Settings)}
}

// Get returns the session's settings, or the defaults.
func (s *Store) Get(sessionID string) model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.items[sessionID]; ok {
		return v
	}
	return model.Defaults()
}

// Update validates and replaces the session's settings.
func (s *Store) Update(sessionID string, next model.Settings) (model.Settings, error) {
	if err := next.Validate(); err != nil {
		return model.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}

	s.mu.Lock()
	s.items[sessionID] = next
	s.mu.Unlock()
	return next, nil
}

// Delete forgets the session's settings.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.items, sessionID)
	s.mu.Unlock()
}
