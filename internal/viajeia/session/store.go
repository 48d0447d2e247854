// Package session manages the durable anonymous identity of a visitor.
// A session id correlates all requests from one traveler across visits.
// It is generated client-side on first use, persisted in the user config
// directory, and never destroyed by the client.
package session

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// StorageKey is the key under which the session id is persisted.
const StorageKey = "viajeia-session-id"

// DefaultStateFile is the name of the session state file.
const DefaultStateFile = "session.yaml"

// Store owns the durable session id. If the state file cannot be read or
// written, the store degrades silently to an in-memory id for the lifetime
// of the process.
type Store struct {
	mu   sync.Mutex
	path string // empty means in-memory only
	id   string
}

// DefaultStatePath returns the default location of the session state file,
// e.g. ~/.config/viajeia/session.yaml on Linux.
func DefaultStatePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "viajeia", DefaultStateFile), nil
}

// NewStore creates a store backed by the default state file. When the user
// config directory cannot be resolved the store operates in-memory.
func NewStore() *Store {
	path, err := DefaultStatePath()
	if err != nil {
		log.Debug().Err(err).Msg("session store falling back to in-memory id")
		path = ""
	}
	return NewStoreAt(path)
}

// NewStoreAt creates a store backed by the given state file path.
// An empty path yields an in-memory store.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// GetOrCreate returns the session id for this visitor, loading it from the
// state file when present and generating and persisting a new one
// otherwise. It is idempotent: repeated calls return the same id.
// Storage failures are not errors; the id simply stops surviving restarts.
func (s *Store) GetOrCreate() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id != "" {
		return s.id
	}

	if id := s.load(); id != "" {
		s.id = id
		return s.id
	}

	s.id = newSessionID()
	s.persist()
	return s.id
}

// load reads the persisted id, returning "" when absent or unreadable.
func (s *Store) load() string {
	if s.path == "" {
		return ""
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	var kv map[string]string
	if err := yaml.Unmarshal(raw, &kv); err != nil {
		log.Debug().Err(err).Str("path", s.path).Msg("unreadable session state file")
		return ""
	}
	return kv[StorageKey]
}

// persist writes the id, gated by "only if absent" at the caller. Failure
// degrades to in-memory operation.
func (s *Store) persist() {
	if s.path == "" {
		return
	}
	raw, err := yaml.Marshal(map[string]string{StorageKey: s.id})
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), os.ModePerm); err != nil {
		log.Debug().Err(err).Str("path", s.path).Msg("session id not persisted")
		return
	}
	if err := os.WriteFile(s.path, raw, os.FileMode(0600)); err != nil {
		log.Debug().Err(err).Str("path", s.path).Msg("session id not persisted")
	}
}

// newSessionID generates a collision-resistant random identifier. It
// prefers a cryptographic UUID and falls back to a weaker pseudo-random
// identifier when crypto randomness is unavailable.
func newSessionID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	buf := make([]byte, 16)
	r.Read(buf)
	return fmt.Sprintf("%x-%x-%x-%x-%x", buf[0:4], buf[4:6], buf[6:8], buf[8:10], buf[10:16])
}
