package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/transport/httpapi"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/seed"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/user"
)

type appDeps struct {
	App     *bootstrap.App
	Users   *user.Service
	Crashes *crash.Service
	Limiter *crash.VoteLimiter
	Seeder  *seed.Loader
	Server  *httpapi.Server
}

func withApp(run func(cmd *cobra.Command, deps appDeps) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", cfgFile),
		)

		var deps appDeps
		fxApp := fx.New(
			bootstrap.Module,
			fx.NopLogger,
			fx.Provide(func() context.Context { return ctx }),
			fx.Provide(
				fx.Annotate(
					func() string { return cfgFile },
					fx.ResultTags(`name:"configFile"`),
				),
			),
			fx.Populate(&deps.App, &deps.Users, &deps.Crashes, &deps.Limiter, &deps.Seeder, &deps.Server),
		)

		startCtx, cancelStart := context.WithTimeout(ctx, 10*time.Second)
		defer cancelStart()
		if err := fxApp.Start(startCtx); err != nil {
			logging.Error(ctx, "bootstrap application failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "start fx application")
		}

		defer func() {
			stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelStop()
			if err := fxApp.Stop(stopCtx); err != nil {
				logging.Error(ctx, "fx application stop failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		cmd.SetContext(ctx)
		if err := run(cmd, deps); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}

// migrateIfRequested runs the schema migration when the command's --migrate
// flag is set.
func migrateIfRequested(cmd *cobra.Command, app *bootstrap.App) error {
	migrate, _ := cmd.Flags().GetBool("migrate")
	if !migrate {
		return nil
	}
	if err := app.InitSchema(cmd.Context()); err != nil {
		return errs.Wrap(err, "initialize schema")
	}
	return nil
}
