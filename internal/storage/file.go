package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const stateFileName = "state.json"

// state is the on-disk layout of the state file.
type state struct {
	Version   int               `json:"version"`
	Items     map[string]string `json:"items"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// File stores values in a single JSON file, written atomically.
type File struct {
	mu      sync.Mutex
	baseDir string
}

// NewFile creates a file store.
// If baseDir is empty, uses ~/.asknalyze/
func NewFile(baseDir string) (*File, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".asknalyze")
	}

	// The token is a credential, keep the directory private
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("state store initialized")

	return &File{baseDir: baseDir}, nil
}

// Path returns the location of the state file.
func (f *File) Path() string {
	return filepath.Join(f.baseDir, stateFileName)
}

// Get returns the value stored under key.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, err := f.load()
	if err != nil {
		return "", false, err
	}

	value, ok := st.Items[key]
	return value, ok, nil
}

// Set stores value under key.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, err := f.load()
	if err != nil {
		return err
	}

	st.Items[key] = value

	return f.save(st)
}

// Remove deletes key. A corrupt state file is reset to empty so callers
// clearing bad data always make progress.
func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, err := f.load()
	if errors.Is(err, ErrCorrupt) {
		log.Warn().Str("path", f.Path()).Msg("resetting corrupt state file")
		return f.save(newState())
	}
	if err != nil {
		return err
	}

	if _, ok := st.Items[key]; !ok {
		return nil
	}

	delete(st.Items, key)

	return f.save(st)
}

// load reads the state file. A missing file is an empty state.
func (f *File) load() (*state, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return newState(), nil
		}
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	if st.Items == nil {
		st.Items = make(map[string]string)
	}

	return &st, nil
}

// save writes the state file atomically.
func (f *File) save(st *state) error {
	st.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	statePath := f.Path()
	tempPath := statePath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}

	if err := os.Rename(tempPath, statePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save state: %w", err)
	}

	return nil
}

func newState() *state {
	return &state{
		Version: 1,
		Items:   make(map[string]string),
	}
}
