/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create or migrate the users, crashes and cache tables",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		dsn := deps.App.Config.Database.DSN

		if err := deps.App.InitSchema(ctx); err != nil {
			logging.Error(ctx, "schema migration failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "initialize schema")
		}

		tables, err := deps.App.DB.WithContext(ctx).Migrator().GetTables()
		if err != nil {
			return errs.Wrap(err, "list tables")
		}
		sort.Strings(tables)
		logging.Info(ctx, "schema migrated", slog.String("database_dsn", dsn), slog.Any("tables", tables))

		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintf(out, "migrated %s\n", dsn); err != nil {
			return errs.Wrap(err, "write init-db output")
		}
		for _, table := range tables {
			if _, err := fmt.Fprintf(out, "  %s\n", table); err != nil {
				return errs.Wrap(err, "write init-db output")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(initDbCmd)
}
