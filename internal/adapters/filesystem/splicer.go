package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/francisjervis/nyc-db/internal/ports/secondary"
)

// blockSeparator precedes every appended block.
const blockSeparator = "\n\n"

// Splicer implements secondary.FileSplicer on the local filesystem.
// It assumes exclusive access to the files it edits.
type Splicer struct{}

// NewSplicer creates a new filesystem splicer.
func NewSplicer() *Splicer {
	return &Splicer{}
}

// Block returns the exact bytes Append adds for text.
func Block(text string) []byte {
	return []byte(blockSeparator + text)
}

// WriteFile overwrites path with content. The parent directory must exist.
func (s *Splicer) WriteFile(ctx context.Context, path string, content []byte, mode uint32) error {
	if mode == 0 {
		mode = 0644
	}
	if err := os.WriteFile(path, content, os.FileMode(mode)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// DeleteFile removes path. A missing file is not an error.
func (s *Splicer) DeleteFile(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// Append writes "\n\n"+text to the end of path without reading it. The file
// must already exist. It returns the offset of the block.
func (s *Splicer) Append(ctx context.Context, path, text string) (int64, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s for append: %w", path, err)
	}
	defer f.Close()

	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to seek %s: %w", path, err)
	}

	if _, err := f.Write(Block(text)); err != nil {
		return 0, fmt.Errorf("failed to append to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return offset, nil
}

// Remove cuts the first occurrence of "\n\n"+text from path and rewrites the
// file. When the block is absent the file is rewritten unchanged.
func (s *Splicer) Remove(ctx context.Context, path, text string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	return rewrite(path, removeFirst(content, Block(text)))
}

// RemoveAt cuts "\n\n"+text at offset when the bytes there are exactly the
// block, so an identical block elsewhere in the file is left alone. Otherwise
// it behaves like Remove.
func (s *Splicer) RemoveAt(ctx context.Context, path, text string, offset int64) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	block := Block(text)
	end := offset + int64(len(block))
	if offset >= 0 && end <= int64(len(content)) && bytes.Equal(content[offset:end], block) {
		out := make([]byte, 0, int64(len(content))-int64(len(block)))
		out = append(out, content[:offset]...)
		out = append(out, content[end:]...)
		return true, rewrite(path, out)
	}

	return false, rewrite(path, removeFirst(content, block))
}

func removeFirst(content, block []byte) []byte {
	return bytes.Replace(content, block, nil, 1)
}

func rewrite(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to rewrite %s: %w", path, err)
	}
	return nil
}

// Ensure Splicer implements the interface
var _ secondary.FileSplicer = (*Splicer)(nil)
