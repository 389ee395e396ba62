// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/francisjervis/nyc-db/internal/ports/secondary"
)

// ErrRootNotFound is returned when no ancestor directory looks like a project root.
var ErrRootNotFound = errors.New("project root not found")

// ProjectAdapter implements secondary.ProjectAdapter for the local filesystem.
type ProjectAdapter struct {
	marker string // relative path whose presence identifies a project root
}

// NewProjectAdapter creates a new filesystem project adapter. marker is the
// relative directory that identifies a project root, e.g. "nycdb/datasets".
func NewProjectAdapter(marker string) *ProjectAdapter {
	return &ProjectAdapter{marker: marker}
}

// FileExists checks if a regular file exists.
func (a *ProjectAdapter) FileExists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check file: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// DirectoryExists checks if a directory exists.
func (a *ProjectAdapter) DirectoryExists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check directory: %w", err)
	}
	return info.IsDir(), nil
}

// FindRoot walks up from start until it finds a directory containing the
// marker.
func (a *ProjectAdapter) FindRoot(ctx context.Context, start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		ok, err := a.DirectoryExists(ctx, filepath.Join(dir, a.marker))
		if err != nil {
			return "", err
		}
		if ok {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s above %s", ErrRootNotFound, a.marker, start)
		}
		dir = parent
	}
}

// Ensure ProjectAdapter implements the interface
var _ secondary.ProjectAdapter = (*ProjectAdapter)(nil)
