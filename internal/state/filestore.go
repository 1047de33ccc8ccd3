package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/vendora/vendora/internal/models"
)

const (
	tokenFile     = "token"
	storeInfoFile = "storeInfo.json"
)

// FileStore persists the session on the local filesystem, one file per key:
// the raw token and the store membership JSON.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a file-backed session store.
// If baseDir is empty, uses ~/.vendora/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".vendora")
	}

	// The token is a credential, keep the directory private
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("session store initialized")

	return &FileStore{baseDir: baseDir}, nil
}

// Load reads any persisted session. Missing files hydrate to an empty
// session; an unreadable storeInfo file is treated as absent membership
// rather than a fatal error.
func (s *FileStore) Load() (PersistedSession, error) {
	var persisted PersistedSession

	data, err := os.ReadFile(filepath.Join(s.baseDir, tokenFile))
	if err != nil {
		if !os.IsNotExist(err) {
			return PersistedSession{}, fmt.Errorf("failed to read token: %w", err)
		}
	} else {
		persisted.Token = string(data)
	}

	data, err = os.ReadFile(filepath.Join(s.baseDir, storeInfoFile))
	if err == nil {
		var store models.Store
		if err := json.Unmarshal(data, &store); err != nil {
			log.Warn().Err(err).Msg("ignoring malformed storeInfo file")
		} else {
			persisted.Store = &store
		}
	} else if !os.IsNotExist(err) {
		return PersistedSession{}, fmt.Errorf("failed to read storeInfo: %w", err)
	}

	return persisted, nil
}

// SaveToken persists the raw token. An empty token removes the file.
func (s *FileStore) SaveToken(token string) error {
	path := filepath.Join(s.baseDir, tokenFile)

	if token == "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove token: %w", err)
		}
		return nil
	}

	return s.writeFile(path, []byte(token))
}

// SaveStore persists the store membership as JSON; nil removes the file.
func (s *FileStore) SaveStore(store *models.Store) error {
	path := filepath.Join(s.baseDir, storeInfoFile)

	if store == nil {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove storeInfo: %w", err)
		}
		return nil
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storeInfo: %w", err)
	}

	return s.writeFile(path, data)
}

// Clear wipes the persisted session. Idempotent.
func (s *FileStore) Clear() error {
	for _, name := range []string{tokenFile, storeInfoFile} {
		if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}

// writeFile writes atomically via a temp file and rename.
func (s *FileStore) writeFile(path string, data []byte) error {
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
	}

	return nil
}
