// Package localstore provides the file-backed collection store: one JSON
// document per identity-prefixed collection key under a local data
// directory. This is the local-first default backend.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pantrysage/v1/internal/ports/outbound"

	"go.uber.org/zap"
)

const sessionMarkerFile = "session"

// Store implements outbound.CollectionStore on the local filesystem.
type Store struct {
	dir    string
	logger *zap.Logger
	mu     sync.Mutex
}

// New creates a file-backed store rooted at dir, creating it if needed.
func New(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.Named("localstore"),
	}, nil
}

func (s *Store) path(identityKey string, collection outbound.Collection) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s__%s.json", identityKey, collection))
}

// Load reads and decodes a collection into out. It reports false on a
// missing file, malformed JSON, or a JSON null, leaving out untouched so
// the caller's default survives. Load never fails the caller.
func (s *Store) Load(ctx context.Context, identityKey string, collection outbound.Collection, out interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(identityKey, collection))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read collection",
				zap.String("identity", identityKey),
				zap.String("collection", string(collection)),
				zap.Error(err),
			)
		}
		return false
	}

	if strings.TrimSpace(string(data)) == "null" {
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("Failed to decode collection, falling back to default",
			zap.String("identity", identityKey),
			zap.String("collection", string(collection)),
			zap.Error(err),
		)
		return false
	}

	return true
}

// Save encodes and writes a collection. The write is atomic (temp file +
// rename) so a crash never leaves a half-written document behind.
func (s *Store) Save(ctx context.Context, identityKey string, collection outbound.Collection, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(s.path(identityKey, collection), value)
}

func (s *Store) write(path string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// LoadSessionMarker reads the unprefixed current-session key.
func (s *Store) LoadSessionMarker(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, sessionMarkerFile))
	if err != nil {
		return "", false
	}
	email := strings.TrimSpace(string(data))
	return email, email != ""
}

// SaveSessionMarker persists the signed-in email as the session marker.
func (s *Store) SaveSessionMarker(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, sessionMarkerFile)
	if err := os.WriteFile(path, []byte(email), 0o644); err != nil {
		return fmt.Errorf("failed to write session marker: %w", err)
	}
	return nil
}

// ClearSessionMarker removes the session marker; the next resolution
// falls back to the guest identity.
func (s *Store) ClearSessionMarker(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, sessionMarkerFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session marker: %w", err)
	}
	return nil
}
