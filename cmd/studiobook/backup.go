package main

import (
	"errors"
	"fmt"

	"studiobook/internal/logging"
	"studiobook/internal/store"

	"github.com/spf13/cobra"
)

func newBackupCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Take a one-off backup of the SQLite store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			sqlite, ok := a.store.(*store.SQLiteStore)
			if !ok {
				return errors.New("backup is only supported for the sqlite store")
			}

			backups := store.NewBackupService(sqlite, a.cfg.Backup, logging.Component(a.logger, "backup"))
			path, err := backups.PerformBackup(ctx)
			if err != nil {
				return err
			}
			backups.CleanupOldBackups()
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
