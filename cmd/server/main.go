// Package main implements the medveritas command, which serves the
// medicine verification API and manages the SQL record store schema.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// newRootCommand builds the medveritas command tree. configFile is shared by
// every subcommand through the persistent --config flag.
func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "medveritas",
		Short: "medveritas verifies medicine packaging and reads prescriptions",
		Long: "medveritas serves an HTTP API that checks medicine packaging for signs of " +
			"counterfeiting, transcribes handwritten prescriptions and keeps dosage reminders.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")

	root.AddCommand(
		newServeCommand(&configFile),
		newMigrateCommand(&configFile),
	)
	return root
}

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
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
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
