package cli

import (
	"github.com/spf13/cobra"

	adaptercli "github.com/francisjervis/nyc-db/internal/adapters/cli"
	"github.com/francisjervis/nyc-db/internal/wire"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [dataset]",
		Short: "List recorded create and undo runs",
		Long: `List the create and undo runs recorded in the scaffold registry, newest first.
REGIONS is the number of shared-file blocks the dataset currently has registered.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")
			var name string
			if len(args) == 1 {
				name = args[0]
			}

			container, err := wire.New(ctx, wireOptions(cmd))
			if err != nil {
				return err
			}
			defer container.Close()

			service, err := container.HistoryService()
			if err != nil {
				return err
			}
			return adaptercli.NewHistoryAdapter(service, cmd.OutOrStdout()).List(ctx, name, limit)
		},
	}
	cmd.Flags().Int("limit", 20, "maximum number of runs to show (0 for all)")
	return cmd
}
