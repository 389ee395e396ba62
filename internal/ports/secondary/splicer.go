package secondary

import "context"

// FileSplicer defines the secondary port for standalone file writes and
// reversible block splicing in shared files.
type FileSplicer interface {
	// WriteFile overwrites path with content. The parent directory must exist.
	WriteFile(ctx context.Context, path string, content []byte, mode uint32) error

	// DeleteFile removes path. A missing file is not an error.
	DeleteFile(ctx context.Context, path string) error

	// Append writes "\n\n"+text at the end of path and returns the offset at
	// which the block starts.
	Append(ctx context.Context, path, text string) (int64, error)

	// Remove cuts the first occurrence of "\n\n"+text from path. An absent
	// block leaves the content unchanged.
	Remove(ctx context.Context, path, text string) error

	// RemoveAt cuts "\n\n"+text at offset when the bytes there match, and
	// falls back to Remove otherwise. It reports whether the offset matched.
	RemoveAt(ctx context.Context, path, text string, offset int64) (bool, error)
}
