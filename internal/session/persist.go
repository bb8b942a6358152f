package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chapelworks/mediasync/models"
)

//go:generate mockgen -source=persist.go -destination=../mock/credential_store_mock.go -package=mock

// CredentialStore persists exactly one credential entry between process
// runs.
type CredentialStore interface {
	// Load returns the persisted credential, or [ErrNoCredential] if none
	// exists or the entry cannot be parsed.
	Load() (models.Credential, error)

	// Save replaces the persisted entry.
	Save(cred models.Credential) error

	// Clear removes the persisted entry. Idempotent.
	Clear() error
}

// fileCredentialStore keeps the credential as one JSON file on disk,
// mirroring the browser origin's single local-storage entry.
type fileCredentialStore struct {
	mu   sync.Mutex
	path string
}

// NewFileCredentialStore returns a [CredentialStore] backed by the JSON
// file at path. The parent directory is created on first Save.
func NewFileCredentialStore(path string) CredentialStore {
	return &fileCredentialStore{path: path}
}

func (f *fileCredentialStore) Load() (models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.Credential{}, ErrNoCredential
		}
		return models.Credential{}, fmt.Errorf("read credential file: %w", err)
	}

	var cred models.Credential
	if err = json.Unmarshal(data, &cred); err != nil {
		// a corrupt entry is indistinguishable from no entry
		return models.Credential{}, ErrNoCredential
	}
	if cred.IsZero() {
		return models.Credential{}, ErrNoCredential
	}

	return cred, nil
}

func (f *fileCredentialStore) Save(cred models.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err = os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create credential dir: %w", err)
		}
	}

	if err = os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

func (f *fileCredentialStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}
