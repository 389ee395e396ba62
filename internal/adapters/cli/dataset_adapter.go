// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting, but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"

	"github.com/francisjervis/nyc-db/internal/core/dataset"
	"github.com/francisjervis/nyc-db/internal/core/effects"
	"github.com/francisjervis/nyc-db/internal/ports/primary"
	"github.com/francisjervis/nyc-db/internal/scaffold"
)

// DatasetAdapter is a thin adapter that translates CLI operations to DatasetService calls.
// It depends only on the DatasetService interface, enabling easy testing with mocks.
type DatasetAdapter struct {
	service primary.DatasetService
	out     io.Writer
}

// NewDatasetAdapter creates a new DatasetAdapter with the given service.
func NewDatasetAdapter(service primary.DatasetService, out io.Writer) *DatasetAdapter {
	return &DatasetAdapter{
		service: service,
		out:     out,
	}
}

// Create scaffolds the dataset and prints the files touched and the next steps.
func (a *DatasetAdapter) Create(ctx context.Context) error {
	if err := a.service.Create(ctx); err != nil {
		return err
	}

	result := a.service.Result()
	green := color.New(color.FgGreen)
	fmt.Fprintf(a.out, "%s Created dataset %s\n\n", green.Sprint("✓"), result.Artifacts.Name)
	a.printFiles(result)

	yellow := color.New(color.FgYellow)
	fmt.Fprintf(a.out, "%s Every field was declared as %q. These types are likely wrong.\n\n",
		yellow.Sprint("!"), scaffold.DefaultFieldType)

	fmt.Fprintln(a.out, "Next steps:")
	for i, step := range result.NextSteps {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, step)
	}
	return nil
}

// Undo removes the dataset's files and shared blocks.
func (a *DatasetAdapter) Undo(ctx context.Context) error {
	if err := a.service.Undo(ctx); err != nil {
		return err
	}

	result := a.service.Result()
	fmt.Fprintf(a.out, "%s Removed dataset %s\n\n", color.New(color.FgGreen).Sprint("✓"), result.Artifacts.Name)

	fmt.Fprintln(a.out, "Files deleted:")
	for _, f := range result.Standalone() {
		fmt.Fprintf(a.out, "  %s\n", f.Path)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Files restored:")
	for _, f := range result.Shared() {
		fmt.Fprintf(a.out, "  %s\n", f.Path)
	}
	return nil
}

// DryRun prints the planned effects and the generated content without
// touching the project. verbose also dumps the generated artifacts.
func (a *DatasetAdapter) DryRun(ctx context.Context, action string, verbose bool) error {
	effs, err := a.service.Plan(ctx, action)
	if err != nil {
		return err
	}

	result := a.service.Result()
	fmt.Fprintf(a.out, "Plan to %s dataset %s:\n", action, result.Artifacts.Name)
	for _, eff := range effs {
		fe, ok := eff.(effects.FileEffect)
		if !ok {
			continue
		}
		fmt.Fprintf(a.out, "  %s %s\n", operationLabel(fe.Operation), fe.Path)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "(dry-run mode - no files written)")

	if action == dataset.ActionCreate {
		fmt.Fprintln(a.out)
		for _, f := range result.Files {
			fmt.Fprintf(a.out, "--- %s (%s) ---\n", f.Path, f.Operation)
			if f.Operation == scaffold.OpCreate {
				fmt.Fprintln(a.out, f.Content)
			} else {
				fmt.Fprintln(a.out, f.Snippet)
			}
		}
	}

	if verbose {
		fmt.Fprintln(a.out)
		spew.Fdump(a.out, result.Artifacts)
	}
	return nil
}

func (a *DatasetAdapter) printFiles(result *scaffold.GeneratorResult) {
	fmt.Fprintln(a.out, "Files created:")
	for _, f := range result.Standalone() {
		fmt.Fprintf(a.out, "  %s\n", f.Path)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Files modified:")
	for _, f := range result.Shared() {
		fmt.Fprintf(a.out, "  %s\n", f.Path)
	}
	fmt.Fprintln(a.out)
}

func operationLabel(op string) string {
	switch op {
	case effects.FileWrite:
		return color.New(color.FgGreen).Sprint("WRITE  ")
	case effects.FileDelete:
		return color.New(color.FgRed).Sprint("DELETE ")
	case effects.FileAppendBlock:
		return color.New(color.FgBlue).Sprint("APPEND ")
	case effects.FileRemoveBlock:
		return color.New(color.FgYellow).Sprint("CUT    ")
	default:
		return op
	}
}
