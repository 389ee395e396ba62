package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francisjervis/nyc-db/internal/adapters/filesystem"
)

const transformsHeader = "from .transform import to_csv\n\n\ndef hpd_violations(dataset):\n    return to_csv(dataset.files[0].dest)\n"

func sharedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset_transformations.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSplicer_AppendThenRemoveRestoresFile(t *testing.T) {
	ctx := context.Background()
	s := filesystem.NewSplicer()
	path := sharedFile(t, transformsHeader)
	block := "def rent_roll(dataset):\n    return to_csv(dataset.files[0].dest)\n"

	offset, err := s.Append(ctx, path, block)
	require.NoError(t, err)
	assert.Equal(t, int64(len(transformsHeader)), offset)
	assert.Equal(t, transformsHeader+"\n\n"+block, readString(t, path))

	require.NoError(t, s.Remove(ctx, path, block))
	assert.Equal(t, transformsHeader, readString(t, path))
}

func TestSplicer_RemoveAbsentBlockIsNoop(t *testing.T) {
	ctx := context.Background()
	s := filesystem.NewSplicer()
	path := sharedFile(t, transformsHeader)

	require.NoError(t, s.Remove(ctx, path, "def never_appended(dataset):\n"))
	assert.Equal(t, transformsHeader, readString(t, path))

	// A second undo is equally harmless
	require.NoError(t, s.Remove(ctx, path, "def never_appended(dataset):\n"))
	assert.Equal(t, transformsHeader, readString(t, path))
}

func TestSplicer_RemoveOnlyFirstOccurrence(t *testing.T) {
	ctx := context.Background()
	s := filesystem.NewSplicer()
	block := "x = 1\n"
	path := sharedFile(t, "a\n\nx = 1\nb\n\nx = 1\n")

	require.NoError(t, s.Remove(ctx, path, block))
	assert.Equal(t, "ab\n\nx = 1\n", readString(t, path))
}

func TestSplicer_RemoveRequiresSeparator(t *testing.T) {
	ctx := context.Background()
	s := filesystem.NewSplicer()
	// The text occurs, but not preceded by a blank line
	path := sharedFile(t, "prefix\nx = 1\n")

	require.NoError(t, s.Remove(ctx, path, "x = 1\n"))
	assert.Equal(t, "prefix\nx = 1\n", readString(t, path))
}

func TestSplicer_RemoveAtPrefersRecordedOffset(t *testing.T) {
	ctx := context.Background()
	s := filesystem.NewSplicer()
	block := "def rent_roll(dataset):\n    pass\n"

	// Hand-written copy of the same text earlier in the file
	original := "header\n\n" + block + "middle\n"
	path := sharedFile(t, original)

	offset, err := s.Append(ctx, path, block)
	require.NoError(t, err)

	matched, err := s.RemoveAt(ctx, path, block, offset)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, original, readString(t, path))
}

func TestSplicer_RemoveAtFallsBackWhenOffsetStale(t *testing.T) {
	ctx := context.Background()
	s := filesystem.NewSplicer()
	block := "def rent_roll(dataset):\n    pass\n"
	path := sharedFile(t, "header\n")

	offset, err := s.Append(ctx, path, block)
	require.NoError(t, err)

	// Someone inserted text before the block, shifting it
	shifted := "# edited\n" + readString(t, path)
	require.NoError(t, os.WriteFile(path, []byte(shifted), 0644))

	matched, err := s.RemoveAt(ctx, path, block, offset)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Equal(t, "# edited\nheader\n", readString(t, path))
}

func TestSplicer_RemoveAtOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := filesystem.NewSplicer()
	path := sharedFile(t, "short\n")

	matched, err := s.RemoveAt(ctx, path, "anything\n", 1<<20)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Equal(t, "short\n", readString(t, path))
}

func TestSplicer_AppendMissingFileFails(t *testing.T) {
	ctx := context.Background()
	s := filesystem.NewSplicer()
	path := filepath.Join(t.TempDir(), "missing.py")

	_, err := s.Append(ctx, path, "x\n")
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestSplicer_RemoveMissingFileFails(t *testing.T) {
	ctx := context.Background()
	s := filesystem.NewSplicer()

	err := s.Remove(ctx, filepath.Join(t.TempDir(), "missing.py"), "x\n")
	require.Error(t, err)
}

func TestSplicer_WriteAndDelete(t *testing.T) {
	ctx := context.Background()
	s := filesystem.NewSplicer()
	dir := t.TempDir()
	path := filepath.Join(dir, "rent_roll.yml")

	require.NoError(t, s.WriteFile(ctx, path, []byte("old"), 0644))
	require.NoError(t, s.WriteFile(ctx, path, []byte("new"), 0644))
	assert.Equal(t, "new", readString(t, path))

	require.NoError(t, s.DeleteFile(ctx, path))
	assert.NoFileExists(t, path)

	// Deleting again is not an error
	require.NoError(t, s.DeleteFile(ctx, path))
}

func TestSplicer_WriteMissingParentFails(t *testing.T) {
	ctx := context.Background()
	s := filesystem.NewSplicer()
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "x.sql")

	require.Error(t, s.WriteFile(ctx, path, []byte("x"), 0644))
}
