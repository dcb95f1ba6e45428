package main

import (
	"fmt"

	"studiobook/internal/export"
	"studiobook/internal/logging"

	"github.com/spf13/cobra"
)

func newExportCmd(configPath *string) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the booking ledger to an Excel workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if dir == "" {
				dir = a.cfg.Exports.Path
			}
			exporter := export.NewLedgerExporter(a.ledger, dir, a.cfg.Booking.Currency, a.clock, logging.Component(a.logger, "export"))
			path, err := exporter.Export(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (defaults to exports.path)")
	return cmd
}
