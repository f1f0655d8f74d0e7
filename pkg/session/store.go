package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CredentialStore persists the credential token across process restarts.
// It is a single named slot: absence means unauthenticated.
type CredentialStore interface {
	// Load returns the stored credential, or ErrCredentialNotFound when the
	// slot is empty.
	Load(ctx context.Context) (string, error)

	// Save replaces the stored credential.
	Save(ctx context.Context, credential string) error

	// Delete clears the slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context) error
}

// FileStore keeps the credential in a single file with owner-only
// permissions. Writes go through a temp file and rename so the slot is never
// observed partially written.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed credential store at path.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoStorePath
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(_ context.Context) (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrCredentialNotFound
		}
		return "", fmt.Errorf("session: read credential file: %w", err)
	}

	credential := strings.TrimSpace(string(raw))
	if credential == "" {
		return "", ErrCredentialNotFound
	}

	return credential, nil
}

func (s *FileStore) Save(_ context.Context, credential string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: create credential dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return fmt.Errorf("session: create temp credential file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("session: chmod credential file: %w", err)
	}
	if _, err := tmp.WriteString(credential); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("session: write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("session: close credential file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("session: replace credential file: %w", err)
	}

	return nil
}

func (s *FileStore) Delete(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove credential file: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory credential store for tests and ephemeral use.
type MemoryStore struct {
	mu         sync.RWMutex
	credential string
	set        bool
}

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return "", ErrCredentialNotFound
	}
	return s.credential, nil
}

func (s *MemoryStore) Save(_ context.Context, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credential = credential
	s.set = true
	return nil
}

func (s *MemoryStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credential = ""
	s.set = false
	return nil
}
