// Package dataset contains the pure business logic for dataset scaffolding.
// Guards are pure functions that evaluate preconditions without side effects.
package dataset

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/francisjervis/nyc-db/internal/scaffold"
)

var (
	// ErrCSVNotFound is returned when the source CSV does not exist.
	ErrCSVNotFound = errors.New("csv file not found")
	// ErrSourceIsSample is returned when the source CSV is the test-data
	// sample the scaffold would overwrite and undo would delete.
	ErrSourceIsSample = errors.New("source csv is the dataset's test sample")
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Cause   error // sentinel for errors.Is, optional
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Cause != nil {
		return fmt.Errorf("%w: %s", r.Cause, r.Reason)
	}
	return fmt.Errorf("%s", r.Reason)
}

// ScaffoldContext provides context for create and undo guards.
type ScaffoldContext struct {
	Name       string
	CSVPath    string // absolute
	CSVExists  bool
	SamplePath string // absolute
	LayoutErr  error  // result of config.Layout.Verify
}

// CanScaffold evaluates whether a dataset can be created or undone.
// Rules:
// - Name must be a valid identifier
// - Source CSV must exist
// - Project layout must be complete
// - Source CSV must not be the sample the scaffold writes
func CanScaffold(ctx ScaffoldContext) GuardResult {
	// Rule 1: valid identifier
	if !scaffold.IsValidName(ctx.Name) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("%q must start with a letter or underscore and contain at least two letters, digits or underscores", ctx.Name),
			Cause:   scaffold.ErrInvalidName,
		}
	}

	// Rule 2: CSV exists
	if !ctx.CSVExists {
		return GuardResult{
			Allowed: false,
			Reason:  ctx.CSVPath,
			Cause:   ErrCSVNotFound,
		}
	}

	// Rule 3: layout complete
	if ctx.LayoutErr != nil {
		return GuardResult{
			Allowed: false,
			Reason:  "run from the nyc-db repository root or pass --root",
			Cause:   ctx.LayoutErr,
		}
	}

	// Rule 4: source is not the sample
	if ctx.SamplePath != "" && filepath.Clean(ctx.CSVPath) == filepath.Clean(ctx.SamplePath) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("%s would be overwritten by its own sample; move it out of the test data directory", ctx.CSVPath),
			Cause:   ErrSourceIsSample,
		}
	}

	return GuardResult{Allowed: true}
}
