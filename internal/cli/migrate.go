package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and exit",
		Long: `Create or update the storage schema.

For the SQL drivers this runs the table migrations. For mongo it creates the
unique username index and the indexes on the relation arrays.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			_, closeStore, err := openBackend(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer closeStore()

			fmt.Fprintf(cmd.OutOrStdout(), "%s store is up to date\n", cfg.StoreDriver)
			return nil
		},
	}
}
