// Package cli defines the server's command line: serve and migrate.
package cli

import (
	"github.com/spf13/cobra"

	"socialportfolio/backend/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
}

// NewRootCommand creates the root command. Running it without a subcommand
// serves HTTP.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	serve := NewServeCommand(opts)

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Social portfolio backend",
		Long:          "REST backend for accounts, connections, profile likes and notifications.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "path to a .env file (default ./.env)")

	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

// loadConfig reads and validates the configuration.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.EnvFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
