package dataset

import (
	"github.com/francisjervis/nyc-db/internal/core/effects"
	"github.com/francisjervis/nyc-db/internal/scaffold"
)

// Actions
const (
	ActionCreate = "create"
	ActionUndo   = "undo"
)

// PlanInput contains pre-generated data for planning.
type PlanInput struct {
	Name   string
	Source string                   // CSV path the artifacts were generated from
	Files  []scaffold.GeneratedFile // standalone files and shared-file blocks
	RunID  string
	Record bool // whether to append a history entry
}

// Plan represents the planned effects for one create or undo.
type Plan struct {
	Dataset       string
	Action        string
	FilesystemOps []effects.FileEffect
	DatabaseOps   []effects.PersistEffect
}

// Effects returns all effects as a flat slice for execution.
func (p Plan) Effects() []effects.Effect {
	result := make([]effects.Effect, 0, len(p.FilesystemOps)+len(p.DatabaseOps)+1)
	result = append(result, effects.LogEffect{
		Level:   "info",
		Message: p.Action + " dataset",
		Fields:  map[string]any{"dataset": p.Dataset, "ops": len(p.FilesystemOps)},
	})
	for _, e := range p.FilesystemOps {
		result = append(result, e)
	}
	for _, e := range p.DatabaseOps {
		result = append(result, e)
	}
	return result
}

// GenerateUndoPlan creates a plan that removes every artifact of a dataset.
// Standalone files are deleted first, then the shared-file blocks are cut.
// This is a pure function - all input data must be pre-generated.
func GenerateUndoPlan(input PlanInput) Plan {
	plan := Plan{
		Dataset:       input.Name,
		Action:        ActionUndo,
		FilesystemOps: undoOps(input),
	}
	plan.DatabaseOps = historyOps(input, ActionUndo)
	return plan
}

// GenerateCreatePlan creates a plan that (re)creates every artifact of a
// dataset. It always starts with the undo operations so that creating twice
// leaves the same files as creating once.
// This is a pure function - all input data must be pre-generated.
func GenerateCreatePlan(input PlanInput) Plan {
	plan := Plan{
		Dataset: input.Name,
		Action:  ActionCreate,
	}

	// 1. Undo whatever a previous create left behind
	plan.FilesystemOps = append(plan.FilesystemOps, undoOps(input)...)

	// 2. Write standalone files
	for _, f := range input.Files {
		if f.Operation != scaffold.OpCreate {
			continue
		}
		plan.FilesystemOps = append(plan.FilesystemOps, effects.FileEffect{
			Operation: effects.FileWrite,
			Path:      f.Path,
			Content:   []byte(f.Content),
			Mode:      0644,
		})
	}

	// 3. Append blocks to shared files
	for _, f := range input.Files {
		if f.Operation != scaffold.OpAppend {
			continue
		}
		plan.FilesystemOps = append(plan.FilesystemOps, effects.FileEffect{
			Operation: effects.FileAppendBlock,
			Path:      f.Path,
			Content:   []byte(f.Snippet),
			Owner:     input.Name,
		})
	}

	plan.DatabaseOps = historyOps(input, ActionCreate)
	return plan
}

func undoOps(input PlanInput) []effects.FileEffect {
	var ops []effects.FileEffect
	for _, f := range input.Files {
		if f.Operation != scaffold.OpCreate {
			continue
		}
		ops = append(ops, effects.FileEffect{
			Operation: effects.FileDelete,
			Path:      f.Path,
		})
	}
	for _, f := range input.Files {
		if f.Operation != scaffold.OpAppend {
			continue
		}
		ops = append(ops, effects.FileEffect{
			Operation: effects.FileRemoveBlock,
			Path:      f.Path,
			Content:   []byte(f.Snippet),
			Owner:     input.Name,
		})
	}
	return ops
}

func historyOps(input PlanInput, action string) []effects.PersistEffect {
	if !input.Record {
		return nil
	}
	return []effects.PersistEffect{{
		Entity:    "history",
		Operation: "record",
		Data: map[string]string{
			"run_id":  input.RunID,
			"dataset": input.Name,
			"action":  action,
			"source":  input.Source,
		},
	}}
}
