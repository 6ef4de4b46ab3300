package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo users and crashes from a TOML fixture file",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := migrateIfRequested(cmd, deps.App); err != nil {
			return err
		}

		file, _ := cmd.Flags().GetString("file")
		summary, err := deps.Seeder.LoadFile(ctx, file)
		if err != nil {
			logging.Error(ctx, "load fixtures failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "load fixtures")
		}

		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"seeded users=%d (existing=%d) crashes=%d votes=%d comments=%d ratings=%d\n",
			summary.UsersCreated,
			summary.UsersExisting,
			summary.Crashes,
			summary.Votes,
			summary.Comments,
			summary.Ratings,
		); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("file", "configs/fixtures.example.toml", "Path to the fixture file")
	seedCmd.Flags().Bool("migrate", true, "Run schema migration before loading")
}
