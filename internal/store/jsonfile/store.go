// Package jsonfile provides a JSON file-based installation store.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/hay-kot/fauxplay/internal/core/install"
)

// InstallFile is the root JSON structure stored on disk.
type InstallFile struct {
	Installations []install.Installation `json:"installations"`
}

// Store implements install.Store using a JSON file for persistence.
type Store struct {
	path string
	mu   sync.RWMutex
}

// New creates a new JSON file store at the given path.
func New(path string) *Store {
	return &Store{path: path}
}

// List returns all installations.
func (s *Store) List(ctx context.Context) ([]install.Installation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}

	return file.Installations, nil
}

// Get returns an installation by ID. Returns ErrNotFound if not found.
func (s *Store) Get(ctx context.Context, id string) (install.Installation, error) {
	return s.find(func(i *install.Installation) bool { return i.ID == id })
}

// Find returns the installation for a layout. Returns ErrNotFound if not found.
func (s *Store) Find(ctx context.Context, appID uint64, relPath, exe string) (install.Installation, error) {
	return s.find(func(i *install.Installation) bool { return i.Matches(appID, relPath, exe) })
}

func (s *Store) find(match func(*install.Installation) bool) (install.Installation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return install.Installation{}, err
	}

	for i := range file.Installations {
		if match(&file.Installations[i]) {
			return file.Installations[i], nil
		}
	}

	return install.Installation{}, install.ErrNotFound
}

// Save creates or updates an installation.
func (s *Store) Save(ctx context.Context, inst install.Installation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(file.Installations, func(existing install.Installation) bool {
		return existing.ID == inst.ID
	})
	if idx >= 0 {
		file.Installations[idx] = inst
	} else {
		file.Installations = append(file.Installations, inst)
	}

	return s.save(file)
}

// Delete removes an installation by ID. Returns ErrNotFound if not found.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	for i, inst := range file.Installations {
		if inst.ID == id {
			file.Installations = append(file.Installations[:i], file.Installations[i+1:]...)
			return s.save(file)
		}
	}

	return install.ErrNotFound
}

// load reads the installation file from disk.
// Returns empty InstallFile if file doesn't exist.
func (s *Store) load() (InstallFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return InstallFile{}, nil
		}
		return InstallFile{}, fmt.Errorf("read installs file: %w", err)
	}

	if len(data) == 0 {
		return InstallFile{}, nil
	}

	var file InstallFile
	if err := json.Unmarshal(data, &file); err != nil {
		return InstallFile{}, fmt.Errorf("parse installs file: %w", err)
	}

	return file, nil
}

// save writes the installation file to disk atomically.
// Uses write-to-temp-then-rename to prevent corruption from interrupted writes.
func (s *Store) save(file InstallFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal installs: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
