package profile

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownProfile is returned when a default names a profile the store lacks.
var ErrUnknownProfile = errors.New("unknown profile")

// Store exposes profile retrieval for HTTP handlers.
type Store interface {
	List() []Profile
	FindByID(id string) (Profile, bool)
	Default() (Profile, bool)
}

// MemoryStore keeps the seeded assistant profiles and which one new
// sessions get when the client names none.
type MemoryStore struct {
	mu        sync.RWMutex
	items     []Profile
	defaultID string
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied profiles.
// The first profile is the default until SetDefault says otherwise.
func NewMemoryStore(items []Profile) *MemoryStore {
	s := &MemoryStore{items: append([]Profile(nil), items...)}
	if len(s.items) > 0 {
		s.defaultID = s.items[0].ID
	}
	return s
}

// List returns the profiles in seed order.
func (s *MemoryStore) List() []Profile {
	return append([]Profile(nil), s.items...)
}

// FindByID looks up a profile by identifier.
func (s *MemoryStore) FindByID(id string) (Profile, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Profile{}, false
}

// SetDefault picks the profile used for sessions created without one
// (DEFAULT_PROFILE). The previous default stays when id is unknown.
func (s *MemoryStore) SetDefault(id string) error {
	if _, ok := s.FindByID(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, id)
	}
	s.mu.Lock()
	s.defaultID = id
	s.mu.Unlock()
	return nil
}

// Default returns the profile for sessions created without a profile id.
func (s *MemoryStore) Default() (Profile, bool) {
	s.mu.RLock()
	id := s.defaultID
	s.mu.RUnlock()
	if id == "" {
		return Profile{}, false
	}
	return s.FindByID(id)
}
