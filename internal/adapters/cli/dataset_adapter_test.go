package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/francisjervis/nyc-db/internal/core/effects"
	"github.com/francisjervis/nyc-db/internal/ports/primary"
	"github.com/francisjervis/nyc-db/internal/scaffold"
)

func init() {
	color.NoColor = true
}

// mockDatasetService implements primary.DatasetService for testing
type mockDatasetService struct {
	createErr error
	undoErr   error
	planErr   error
	result    *scaffold.GeneratorResult

	createCalls int
	undoCalls   int
	lastAction  string
}

var _ primary.DatasetService = (*mockDatasetService)(nil)

func newMockDatasetService() *mockDatasetService {
	return &mockDatasetService{
		result: &scaffold.GeneratorResult{
			Artifacts: scaffold.ArtifactSet{Name: "rent_roll", Header: []string{"bbl"}},
			Files: []scaffold.GeneratedFile{
				{Path: "nycdb/datasets/rent_roll.yml", Content: "schema:\n", Operation: scaffold.OpCreate},
				{Path: "nycdb/dataset_transformations.py", Snippet: "def rent_roll(dataset):\n", Operation: scaffold.OpAppend},
			},
			NextSteps: []string{"Edit the URL", "Run the test"},
		},
	}
}

func (m *mockDatasetService) Create(ctx context.Context) error {
	m.createCalls++
	return m.createErr
}

func (m *mockDatasetService) Undo(ctx context.Context) error {
	m.undoCalls++
	return m.undoErr
}

func (m *mockDatasetService) Plan(ctx context.Context, action string) ([]effects.Effect, error) {
	m.lastAction = action
	if m.planErr != nil {
		return nil, m.planErr
	}
	return []effects.Effect{
		effects.LogEffect{Level: "info", Message: action},
		effects.FileEffect{Operation: effects.FileWrite, Path: "nycdb/datasets/rent_roll.yml"},
		effects.FileEffect{Operation: effects.FileAppendBlock, Path: "nycdb/dataset_transformations.py"},
	}, nil
}

func (m *mockDatasetService) Result() *scaffold.GeneratorResult {
	return m.result
}

func TestDatasetAdapter_Create(t *testing.T) {
	svc := newMockDatasetService()
	var out bytes.Buffer

	if err := NewDatasetAdapter(svc, &out).Create(context.Background()); err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if svc.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", svc.createCalls)
	}

	got := out.String()
	for _, want := range []string{
		"✓ Created dataset rent_roll",
		"Files created:\n  nycdb/datasets/rent_roll.yml",
		"Files modified:\n  nycdb/dataset_transformations.py",
		"likely wrong",
		"  1. Edit the URL\n  2. Run the test\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDatasetAdapter_CreateError(t *testing.T) {
	svc := newMockDatasetService()
	svc.createErr = errors.New("permission denied")
	var out bytes.Buffer

	err := NewDatasetAdapter(svc, &out).Create(context.Background())
	if !errors.Is(err, svc.createErr) {
		t.Errorf("Create error = %v, want %v", err, svc.createErr)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed on failure, got %q", out.String())
	}
}

func TestDatasetAdapter_Undo(t *testing.T) {
	svc := newMockDatasetService()
	var out bytes.Buffer

	if err := NewDatasetAdapter(svc, &out).Undo(context.Background()); err != nil {
		t.Fatalf("Undo error = %v", err)
	}
	if svc.undoCalls != 1 {
		t.Errorf("undoCalls = %d, want 1", svc.undoCalls)
	}
	if got := out.String(); !strings.Contains(got, "✓ Removed dataset rent_roll") ||
		!strings.Contains(got, "Files restored:\n  nycdb/dataset_transformations.py") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestDatasetAdapter_DryRun(t *testing.T) {
	svc := newMockDatasetService()
	var out bytes.Buffer

	if err := NewDatasetAdapter(svc, &out).DryRun(context.Background(), "create", false); err != nil {
		t.Fatalf("DryRun error = %v", err)
	}
	if svc.createCalls != 0 || svc.undoCalls != 0 {
		t.Error("DryRun must not execute")
	}
	if svc.lastAction != "create" {
		t.Errorf("planned action = %q, want create", svc.lastAction)
	}

	got := out.String()
	for _, want := range []string{
		"Plan to create dataset rent_roll:",
		"WRITE   nycdb/datasets/rent_roll.yml",
		"APPEND  nycdb/dataset_transformations.py",
		"(dry-run mode - no files written)",
		"--- nycdb/datasets/rent_roll.yml (create) ---\nschema:\n",
		"--- nycdb/dataset_transformations.py (append) ---\ndef rent_roll(dataset):\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "ArtifactSet") {
		t.Error("artifacts should only be dumped in verbose mode")
	}
}

func TestDatasetAdapter_DryRunVerboseDumpsArtifacts(t *testing.T) {
	svc := newMockDatasetService()
	var out bytes.Buffer

	if err := NewDatasetAdapter(svc, &out).DryRun(context.Background(), "undo", true); err != nil {
		t.Fatalf("DryRun error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "scaffold.ArtifactSet") || !strings.Contains(got, `Name: (string) (len=9) "rent_roll"`) {
		t.Errorf("verbose dry run should dump artifacts:\n%s", got)
	}
	if strings.Contains(got, "--- nycdb") {
		t.Error("undo dry run should not print generated content")
	}
}

func TestDatasetAdapter_DryRunPlanError(t *testing.T) {
	svc := newMockDatasetService()
	svc.planErr = errors.New("unknown action: rename")

	err := NewDatasetAdapter(svc, &bytes.Buffer{}).DryRun(context.Background(), "rename", false)
	if !errors.Is(err, svc.planErr) {
		t.Errorf("DryRun error = %v, want plan error", err)
	}
}
