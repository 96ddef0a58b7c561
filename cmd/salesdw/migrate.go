package main

import (
	"context"
	"fmt"

	"github.com/smallbiznis/salesdw/internal/config"
	"github.com/smallbiznis/salesdw/internal/migration"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the staging, dimension, fact and run log tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				conn *gorm.DB
				cfg  config.Config
			)
			return runApp(cmd.Context(), opts, func(context.Context) error {
				if err := migration.Run(conn, cfg.DBType); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema is up to date (%s)\n", cfg.DBType)
				return nil
			}, &conn, &cfg)
		},
	}
}
