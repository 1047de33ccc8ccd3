package state

import (
	"sync"

	"github.com/vendora/vendora/internal/models"
)

// MemoryStore implements Persistence in memory.
// This implementation is for testing only - data is lost on restart.
type MemoryStore struct {
	mu sync.Mutex

	token string
	store *models.Store
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (PersistedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	persisted := PersistedSession{Token: s.token}
	if s.store != nil {
		// Clone to avoid external modifications
		clone := *s.store
		persisted.Store = &clone
	}
	return persisted, nil
}

func (s *MemoryStore) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) SaveStore(store *models.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if store == nil {
		s.store = nil
		return nil
	}
	clone := *store
	s.store = &clone
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.store = nil
	return nil
}
