package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Durable entry names. StateKey holds the serialized session; LogoutKey is
// the broadcast marker whose value is a timestamp — only its change matters.
const (
	StateKey  = "auth"
	LogoutKey = "auth-logout"
)

// State is the client-held copy of the current session.
type State struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	UserID string `json:"userId"`
}

// Empty reports whether no session is held.
func (s State) Empty() bool {
	return s.Token == "" && s.Role == "" && s.UserID == ""
}

// Store is durable local storage shared by all client instances on a host.
// Get returns "" with no error for an absent key.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// fileStore keeps one file per key under a directory.
type fileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a file-backed store.
func NewFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Get(key string) (string, error) {
	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Set writes via a temp file and rename so a concurrent reader never sees a
// half-written value.
func (s *fileStore) Set(key, value string) error {
	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

func (s *fileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

// LoadState reads and decodes the durable session entry. A missing or
// unreadable entry yields the zero state.
func LoadState(store Store) State {
	raw, err := store.Get(StateKey)
	if err != nil || raw == "" {
		return State{}
	}
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}
	}
	return state
}

// SaveState serializes and persists the session entry.
func SaveState(store Store, state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return store.Set(StateKey, string(raw))
}
