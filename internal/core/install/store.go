package install

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no installation matches.
var ErrNotFound = errors.New("installation not found")

// Store defines persistence operations for installations.
type Store interface {
	// List returns all installations.
	List(ctx context.Context) ([]Installation, error)
	// Get returns an installation by ID. Returns ErrNotFound if not found.
	Get(ctx context.Context, id string) (Installation, error)
	// Find returns the installation with the given layout. Returns ErrNotFound
	// if not found.
	Find(ctx context.Context, appID uint64, relPath, exe string) (Installation, error)
	// Save creates or updates an installation.
	Save(ctx context.Context, inst Installation) error
	// Delete removes an installation by ID. Returns ErrNotFound if not found.
	Delete(ctx context.Context, id string) error
}
