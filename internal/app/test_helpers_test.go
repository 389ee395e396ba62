package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/francisjervis/nyc-db/internal/config"
	"github.com/francisjervis/nyc-db/internal/ports/secondary"
)

// Ensure the mocks implement the interfaces
var (
	_ secondary.RegionRepository  = (*mockRegionRepository)(nil)
	_ secondary.HistoryRepository = (*mockHistoryRepository)(nil)
	_ secondary.FileSplicer       = (*failingSplicer)(nil)
)

// ============================================================================
// Mock Implementations
// ============================================================================

type regionKey struct{ dataset, path string }

// mockRegionRepository implements secondary.RegionRepository in memory.
type mockRegionRepository struct {
	regions   map[regionKey]*secondary.RegionRecord
	recordErr error
	findErr   error
}

func newMockRegionRepository() *mockRegionRepository {
	return &mockRegionRepository{regions: make(map[regionKey]*secondary.RegionRecord)}
}

func (m *mockRegionRepository) Record(ctx context.Context, record *secondary.RegionRecord) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	copied := *record
	m.regions[regionKey{record.Dataset, record.Path}] = &copied
	return nil
}

func (m *mockRegionRepository) Find(ctx context.Context, dataset, path string) (*secondary.RegionRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.regions[regionKey{dataset, path}], nil
}

func (m *mockRegionRepository) Forget(ctx context.Context, dataset, path string) error {
	delete(m.regions, regionKey{dataset, path})
	return nil
}

func (m *mockRegionRepository) List(ctx context.Context, dataset string) ([]*secondary.RegionRecord, error) {
	var out []*secondary.RegionRecord
	for k, r := range m.regions {
		if dataset == "" || k.dataset == dataset {
			out = append(out, r)
		}
	}
	return out, nil
}

// mockHistoryRepository implements secondary.HistoryRepository in memory.
type mockHistoryRepository struct {
	records []*secondary.HistoryRecord
	listErr error
}

func newMockHistoryRepository() *mockHistoryRepository {
	return &mockHistoryRepository{}
}

func (m *mockHistoryRepository) Append(ctx context.Context, record *secondary.HistoryRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *mockHistoryRepository) List(ctx context.Context, dataset string, limit int) ([]*secondary.HistoryRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.HistoryRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if dataset != "" && r.Dataset != dataset {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

var errDiskFull = errors.New("disk full")

// failingSplicer fails every write.
type failingSplicer struct{}

func (failingSplicer) WriteFile(ctx context.Context, path string, content []byte, mode uint32) error {
	return errDiskFull
}
func (failingSplicer) DeleteFile(ctx context.Context, path string) error { return nil }
func (failingSplicer) Append(ctx context.Context, path, text string) (int64, error) {
	return 0, errDiskFull
}
func (failingSplicer) Remove(ctx context.Context, path, text string) error { return nil }
func (failingSplicer) RemoveAt(ctx context.Context, path, text string, offset int64) (bool, error) {
	return false, nil
}

// ============================================================================
// Project fixtures
// ============================================================================

const (
	initialTransforms = "from .transform import to_csv\n\n\ndef hpd_violations(dataset):\n    return to_csv(dataset.files[0].dest)\n"
	initialTests      = "import nycdb\n\nARGS = {}\n\n\ndef test_hpd_violations(conn):\n    pass\n"
	rentRollCSV       = "bbl,unit,rent\n1000010001,1A,1500\n1000010001,2B,1750\n"
)

// newTestProject lays out an nyc-db checkout in a temp dir and returns its layout.
func newTestProject(t *testing.T) config.Layout {
	t.Helper()
	layout := config.Default().Layout
	layout.Root = t.TempDir()

	for _, dir := range []string{layout.DatasetsDir, layout.SQLDir, layout.TestDataDir} {
		if err := os.MkdirAll(filepath.Join(layout.Root, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}
	writeFile(t, layout.TransformationsPath(), initialTransforms)
	writeFile(t, layout.TestPath(), initialTests)
	return layout
}

// writeCSV writes a CSV outside the project tree and returns its path.
func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	writeFile(t, path, content)
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// snapshot returns every file under root keyed by relative path.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return files
}
