package cli

import (
	"github.com/spf13/cobra"

	adaptercli "github.com/francisjervis/nyc-db/internal/adapters/cli"
	"github.com/francisjervis/nyc-db/internal/core/dataset"
	"github.com/francisjervis/nyc-db/internal/ctxutil"
	"github.com/francisjervis/nyc-db/internal/scaffold"
	"github.com/francisjervis/nyc-db/internal/version"
	"github.com/francisjervis/nyc-db/internal/wire"
)

// NewRootCmd builds the create-dataset command with its subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "create-dataset <csvfile>",
		Short:   "Scaffold a new nyc-db dataset from a CSV file",
		Version: version.String(),
		Long: `Generate the boilerplate for a new nyc-db dataset named after the CSV file:
  - Schema declaration (nycdb/datasets/<name>.yml)
  - Index script (nycdb/sql/<name>.sql)
  - Test sample (tests/integration/data/<name>.csv)
  - Transformation function (appended to nycdb/dataset_transformations.py)
  - Integration test (appended to tests/integration/test_datasets.py)

Every field is declared as text; the generated types are likely wrong and
must be reviewed. Running again regenerates everything; --undo removes it.

Examples:
  create-dataset rent_roll.csv
  create-dataset rent_roll.csv --dry-run --verbose
  create-dataset rent_roll.csv --undo`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCreateDataset,
	}

	rootCmd.PersistentFlags().String("root", "", "nyc-db repository root (default: found from the working directory)")
	rootCmd.PersistentFlags().String("config", "", "config file (default: <root>/.create-dataset.yml)")
	rootCmd.PersistentFlags().Bool("no-registry", false, "do not record splice regions or history")
	rootCmd.PersistentFlags().Bool("verbose", false, "log diagnostics to stderr")

	rootCmd.Flags().Bool("undo", false, "remove a previously scaffolded dataset")
	rootCmd.Flags().Bool("dry-run", false, "print the plan and generated content without writing")
	rootCmd.Flags().String("index-column", "", "column used by the generated index (default: bbl)")
	rootCmd.Flags().Int("sample-lines", 0, "lines of the CSV copied to the test sample (default: 101)")

	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func runCreateDataset(cmd *cobra.Command, args []string) error {
	ctx := ctxutil.WithNewRunID(cmd.Context())
	csvPath := args[0]
	undo, _ := cmd.Flags().GetBool("undo")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	indexColumn, _ := cmd.Flags().GetString("index-column")
	sampleLines, _ := cmd.Flags().GetInt("sample-lines")

	container, err := wire.New(ctx, wireOptions(cmd))
	if err != nil {
		return err
	}
	defer container.Close()

	log := container.Logger.With("run_id", ctxutil.RunIDFromContext(ctx), "csv", csvPath)
	log.Debug("starting", "undo", undo, "dry_run", dryRun, "root", container.Config.Layout.Root)

	service, err := container.DatasetService(ctx, csvPath, scaffold.Options{
		IndexColumn: indexColumn,
		SampleLines: sampleLines,
	})
	if err != nil {
		return err
	}

	adapter := adaptercli.NewDatasetAdapter(service, cmd.OutOrStdout())

	action := dataset.ActionCreate
	if undo {
		action = dataset.ActionUndo
	}

	switch {
	case dryRun:
		return adapter.DryRun(ctx, action, verbose)
	case undo:
		return adapter.Undo(ctx)
	default:
		return adapter.Create(ctx)
	}
}

func wireOptions(cmd *cobra.Command) wire.Options {
	root, _ := cmd.Flags().GetString("root")
	configFile, _ := cmd.Flags().GetString("config")
	noRegistry, _ := cmd.Flags().GetBool("no-registry")
	verbose, _ := cmd.Flags().GetBool("verbose")
	return wire.Options{
		Root:       root,
		ConfigFile: configFile,
		NoRegistry: noRegistry,
		Verbose:    verbose,
	}
}
