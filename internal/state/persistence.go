package state

import (
	"github.com/vendora/vendora/internal/models"
)

// PersistedSession is the durable slice of session state: the opaque auth
// token and the cached store membership. Both are written together and wiped
// together on logout, expiry, or authorization failure.
type PersistedSession struct {
	Token string
	Store *models.Store
}

// Persistence stores the session across process restarts so a new run can
// rehydrate synchronously before the first network round trip completes.
type Persistence interface {
	Load() (PersistedSession, error)
	SaveToken(token string) error
	// SaveStore persists the store membership; nil clears it.
	SaveStore(store *models.Store) error
	// Clear wipes everything. Clearing an already-empty store is a no-op.
	Clear() error
}
