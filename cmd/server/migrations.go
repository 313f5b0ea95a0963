package main

import (
	"github.com/spf13/cobra"

	"github.com/medveritas/medveritas-api/internal/platform/migrate"
)

// newMigrateCommand builds "migrate up|down|status" for the SQL backends.
func newMigrateCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the record store schema of the sqlite and postgres backends",
	}

	for _, sub := range []struct {
		command string
		short   string
	}{
		{migrate.CommandUp, "Apply all pending migrations"},
		{migrate.CommandDown, "Roll back the most recent migration"},
		{migrate.CommandStatus, "Show the state of every migration"},
	} {
		command := sub.command
		cmd.AddCommand(&cobra.Command{
			Use:   command,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadAppConfig(*configFile)
				if err != nil {
					return err
				}
				logger, err := setupAppLogger(cfg)
				if err != nil {
					return err
				}
				return applyMigrations(cmd.Context(), cfg.Storage, logger, command)
			},
		})
	}

	return cmd
}
