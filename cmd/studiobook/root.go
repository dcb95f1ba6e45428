package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "studiobook",
		Short:         "Booking requests, calendar and catalog for a photography studio",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", envOr("CONFIG_PATH", "configs/config.yaml"), "path to the YAML config")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newExportCmd(&configPath))
	root.AddCommand(newBackupCmd(&configPath))
	root.AddCommand(newSlotsCmd(&configPath))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "studiobook %s (%s)\n", Version, CommitSHA)
		},
	})

	return root
}
