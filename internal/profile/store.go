package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Store reads and writes the profile file. The whole Set is loaded, changed
// and written back by each command; two commands running at once can lose
// each other's changes.
type Store struct {
	path string
	log  zerolog.Logger
}

// NewStore creates a store for the JSON file at path. log should already
// carry a component field, see logger.WithComponent.
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		log:  log,
	}
}

// Path returns the profile file location
func (s *Store) Path() string {
	return s.path
}

// Load reads all saved profiles. A missing, empty or unparsable file yields
// an empty set, since a first run has nothing saved yet.
func (s *Store) Load() (Set, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug().Str("path", s.path).Msg("no profile file yet")
		return make(Set), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return make(Set), nil
	}

	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("ignoring unreadable profile file")
		return make(Set), nil
	}
	if set == nil {
		set = make(Set)
	}

	for name, p := range set {
		if p == nil {
			delete(set, name)
			continue
		}
		if p.Connected == nil {
			p.Connected = make(map[string]DeviceProfile)
		}
		if p.Disabled == nil {
			p.Disabled = []string{}
		}
	}

	return set, nil
}

// Save overwrites the profile file with set. The file is written next to the
// target and renamed into place so a failed write never truncates it.
func (s *Store) Save(set Set) error {
	if set == nil {
		set = make(Set)
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".xprofile-*.json")
	if err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}

	s.log.Debug().Str("path", s.path).Int("profiles", len(set)).Msg("saved profiles")
	return nil
}
