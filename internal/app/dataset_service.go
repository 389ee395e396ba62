package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/francisjervis/nyc-db/internal/config"
	"github.com/francisjervis/nyc-db/internal/core/dataset"
	"github.com/francisjervis/nyc-db/internal/core/effects"
	"github.com/francisjervis/nyc-db/internal/ctxutil"
	"github.com/francisjervis/nyc-db/internal/ports/primary"
	"github.com/francisjervis/nyc-db/internal/ports/secondary"
	"github.com/francisjervis/nyc-db/internal/scaffold"
)

// DatasetScaffolder implements primary.DatasetService for one CSV file. The
// generated artifacts are computed once at construction and shared by Create
// and Undo.
type DatasetScaffolder struct {
	result   *scaffold.GeneratorResult
	executor EffectExecutor
	record   bool
}

var _ primary.DatasetService = (*DatasetScaffolder)(nil)

// ScaffoldRequest contains the parameters for NewDatasetScaffolder.
type ScaffoldRequest struct {
	CSVPath       string
	Layout        config.Layout
	Options       scaffold.Options
	RecordHistory bool
}

// NewDatasetScaffolder validates the request and generates the dataset's
// artifacts. Nothing is written: a validation failure leaves the project
// untouched.
func NewDatasetScaffolder(
	ctx context.Context,
	req ScaffoldRequest,
	project secondary.ProjectAdapter,
	executor EffectExecutor,
) (*DatasetScaffolder, error) {
	csvExists, err := project.FileExists(ctx, req.CSVPath)
	if err != nil {
		return nil, err
	}

	name := scaffold.DatasetNameFromPath(req.CSVPath)
	csvAbs, err := filepath.Abs(req.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", req.CSVPath, err)
	}
	sampleAbs, err := filepath.Abs(req.Layout.SamplePath(name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sample path: %w", err)
	}

	guardCtx := dataset.ScaffoldContext{
		Name:       name,
		CSVPath:    csvAbs,
		CSVExists:  csvExists,
		SamplePath: sampleAbs,
		LayoutErr:  req.Layout.Verify(),
	}
	if result := dataset.CanScaffold(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	result, err := scaffold.NewGenerator().GenerateDataset(req.CSVPath, req.Layout, req.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dataset: %w", err)
	}

	return &DatasetScaffolder{
		result:   result,
		executor: executor,
		record:   req.RecordHistory,
	}, nil
}

// Create undoes any previous scaffold, writes the standalone files and
// appends the shared blocks. A failure part way is not rolled back; running
// Create again recovers.
func (s *DatasetScaffolder) Create(ctx context.Context) error {
	return s.run(ctx, dataset.ActionCreate)
}

// Undo deletes the standalone files and removes the shared blocks. Missing
// files and absent blocks are skipped.
func (s *DatasetScaffolder) Undo(ctx context.Context) error {
	return s.run(ctx, dataset.ActionUndo)
}

// Plan returns the effects Create or Undo would execute.
func (s *DatasetScaffolder) Plan(ctx context.Context, action string) ([]effects.Effect, error) {
	input := dataset.PlanInput{
		Name:   s.result.Artifacts.Name,
		Source: s.result.Artifacts.SourcePath,
		Files:  s.result.Files,
		RunID:  ctxutil.RunIDFromContext(ctx),
		Record: s.record,
	}

	switch action {
	case dataset.ActionCreate:
		return dataset.GenerateCreatePlan(input).Effects(), nil
	case dataset.ActionUndo:
		return dataset.GenerateUndoPlan(input).Effects(), nil
	default:
		return nil, fmt.Errorf("unknown action: %s", action)
	}
}

// Result returns the generated artifacts and their target files.
func (s *DatasetScaffolder) Result() *scaffold.GeneratorResult {
	return s.result
}

func (s *DatasetScaffolder) run(ctx context.Context, action string) error {
	effs, err := s.Plan(ctx, action)
	if err != nil {
		return err
	}
	if err := s.executor.Execute(ctx, effs); err != nil {
		return fmt.Errorf("failed to %s dataset %s: %w", action, s.result.Artifacts.Name, err)
	}
	return nil
}
