package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSlotsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Show or replace the bookable time slots",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the stored time slots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			slots, err := a.timeSlots.List(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(slots, " "))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set HH:MM...",
		Short: "Replace the stored time slots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			slots, err := a.timeSlots.Replace(ctx, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(slots, " "))
			return nil
		},
	})

	return cmd
}
