package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/ids"
	domainuser "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/user"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/user"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Register, inspect and rate users",
}

// resolveUserID accepts a user id or a handle.
func resolveUserID(ctx context.Context, users *user.Service, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if id, err := ids.Normalize(ref, domainuser.ErrInvalidUserID); err == nil {
		return id, nil
	}
	profile, err := users.GetProfileByHandle(ctx, ref)
	if err != nil {
		return "", err
	}
	return profile.UserID, nil
}

var userRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a user account",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		input := user.RegisterInput{}
		input.Handle, _ = cmd.Flags().GetString("handle")
		input.Password, _ = cmd.Flags().GetString("password")
		input.FirstName, _ = cmd.Flags().GetString("first-name")
		input.LastName, _ = cmd.Flags().GetString("last-name")
		input.Email, _ = cmd.Flags().GetString("email")
		input.Gender, _ = cmd.Flags().GetString("gender")
		input.City, _ = cmd.Flags().GetString("city")
		input.State, _ = cmd.Flags().GetString("state")
		input.DateOfBirth, _ = cmd.Flags().GetString("dob")

		profile, err := deps.Users.Register(ctx, input)
		if err != nil {
			logging.Error(ctx, "register user failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "register user")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "registered user: %s (%s)\n", profile.UserID, profile.Handle); err != nil {
			return errs.Wrap(err, "write register output")
		}
		return nil
	}),
}

var userLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check a handle and password and record the login",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		handle, _ := cmd.Flags().GetString("handle")
		password, _ := cmd.Flags().GetString("password")
		profile, err := deps.Users.Authenticate(ctx, handle, password)
		if err != nil {
			return errs.Wrap(err, "authenticate")
		}
		return renderProfile(cmd.OutOrStdout(), profile)
	}),
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users by last name",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		profiles, err := deps.Users.ListUsers(ctx)
		if err != nil {
			logging.Error(ctx, "list users failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list users")
		}
		return renderProfiles(cmd.OutOrStdout(), profiles)
	}),
}

var userShowCmd = &cobra.Command{
	Use:   "show <user-id|handle>",
	Short: "Show a user profile",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		userID, err := resolveUserID(ctx, deps.Users, cmd.Flags().Arg(0))
		if err != nil {
			return errs.Wrap(err, "resolve user")
		}
		as, _ := cmd.Flags().GetString("as")
		viewerID, err := resolveUserID(ctx, deps.Users, as)
		if err != nil {
			return errs.Wrap(err, "resolve viewer")
		}

		profile, err := deps.Users.GetProfile(ctx, user.GetProfileInput{UserID: userID, ViewerID: viewerID})
		if err != nil {
			return errs.Wrap(err, "show user")
		}
		return renderProfile(cmd.OutOrStdout(), profile)
	}),
}

var userRateCmd = &cobra.Command{
	Use:   "rate <user-id|handle> <up|down>",
	Short: "Rate another user up or down",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		targetID, err := resolveUserID(ctx, deps.Users, cmd.Flags().Arg(0))
		if err != nil {
			return errs.Wrap(err, "resolve target")
		}
		value, err := domainuser.ParseDirection(cmd.Flags().Arg(1))
		if err != nil {
			return err
		}
		as, _ := cmd.Flags().GetString("as")
		raterID, err := resolveUserID(ctx, deps.Users, as)
		if err != nil {
			return errs.Wrap(err, "resolve rater")
		}

		profile, err := deps.Users.RateUser(ctx, user.RateUserInput{TargetUserID: targetID, RaterID: raterID, Value: value})
		if err != nil {
			logging.Error(ctx, "rate user failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "rate user")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "rated %s: score=%d\n", profile.Handle, profile.SocialCreditRating); err != nil {
			return errs.Wrap(err, "write rate output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userRegisterCmd)
	userCmd.AddCommand(userLoginCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userRateCmd)

	userRegisterCmd.Flags().String("handle", "", "Login handle")
	userRegisterCmd.Flags().String("password", "", "Password")
	userRegisterCmd.Flags().String("first-name", "", "First name")
	userRegisterCmd.Flags().String("last-name", "", "Last name")
	userRegisterCmd.Flags().String("email", "", "Email address")
	userRegisterCmd.Flags().String("gender", "", "Gender")
	userRegisterCmd.Flags().String("city", "", "City")
	userRegisterCmd.Flags().String("state", "", "State")
	userRegisterCmd.Flags().String("dob", "", "Date of birth (YYYY-MM-DD)")
	_ = userRegisterCmd.MarkFlagRequired("handle")
	_ = userRegisterCmd.MarkFlagRequired("password")

	userLoginCmd.Flags().String("handle", "", "Login handle")
	userLoginCmd.Flags().String("password", "", "Password")
	_ = userLoginCmd.MarkFlagRequired("handle")
	_ = userLoginCmd.MarkFlagRequired("password")

	userShowCmd.Flags().String("as", "", "Viewer user id or handle")

	userRateCmd.Flags().String("as", "", "Rater user id or handle")
	_ = userRateCmd.MarkFlagRequired("as")
}
