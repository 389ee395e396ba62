// Package secondary defines the secondary ports (driven adapters) for the application.
package secondary

import "context"

// ProjectAdapter defines the secondary port for inspecting the nyc-db
// project tree.
type ProjectAdapter interface {
	// Existence checks
	FileExists(ctx context.Context, path string) (bool, error)
	DirectoryExists(ctx context.Context, path string) (bool, error)

	// Path resolution
	FindRoot(ctx context.Context, start string) (string, error)
}
