/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "samaritan",
	Short:        "Community crash reporting and witness verification",
	Long:         "Samaritan records NYC motor vehicle crashes, lets users verify them as witnesses and keeps a social credit score per user.",
	SilenceUsage: true,
}

// Execute runs the command tree under ctx.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	// Info to stderr until the fx module installs the configured logger.
	logging.SetDefault(slog.New(slog.NewTextHandler(rootCmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
	ctx = logging.WithAttrs(ctx, slog.String("app", "samaritan"))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error(ctx, "command execution failed", slog.Any("err", errs.Loggable(err)))
		return errs.Wrap(err, "execute root command")
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "configs/config.yaml", "Config file path")
}
