package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/crash"
)

var crashCmd = &cobra.Command{
	Use:   "crash",
	Short: "Report, browse and verify crashes",
}

var casualtyFlags = []string{
	"persons-injured", "persons-killed",
	"pedestrians-injured", "pedestrians-killed",
	"cyclists-injured", "cyclists-killed",
	"motorists-injured", "motorists-killed",
}

func casualtiesFromFlags(cmd *cobra.Command) domaincrash.Casualties {
	get := func(name string) int {
		n, _ := cmd.Flags().GetInt(name)
		return n
	}
	return domaincrash.Casualties{
		PersonsInjured:     get("persons-injured"),
		PersonsKilled:      get("persons-killed"),
		PedestriansInjured: get("pedestrians-injured"),
		PedestriansKilled:  get("pedestrians-killed"),
		CyclistsInjured:    get("cyclists-injured"),
		CyclistsKilled:     get("cyclists-killed"),
		MotoristsInjured:   get("motorists-injured"),
		MotoristsKilled:    get("motorists-killed"),
	}
}

// parseVehicleFlag reads "key=value" pairs separated by commas. Keys are
// plate, type, make, model, year, state and damage.
func parseVehicleFlag(raw string) (domaincrash.Vehicle, error) {
	var v domaincrash.Vehicle
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return domaincrash.Vehicle{}, fmt.Errorf("vehicle field %q must be key=value", part)
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "plate":
			v.VehicleID = value
		case "type":
			v.VehicleType = value
		case "make":
			v.Make = value
		case "model":
			v.Model = value
		case "year":
			year, err := strconv.Atoi(value)
			if err != nil {
				return domaincrash.Vehicle{}, fmt.Errorf("vehicle year %q is not a number", value)
			}
			v.Year = &year
		case "state":
			v.StateRegistration = value
		case "damage":
			v.Damage = value
		default:
			return domaincrash.Vehicle{}, fmt.Errorf("unknown vehicle field %q", key)
		}
	}
	return v, nil
}

func parseDayFlag(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("date %q must use YYYY-MM-DD", raw)
	}
	return &day, nil
}

var crashCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Report a crash",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		as, _ := cmd.Flags().GetString("as")
		creatorID, err := resolveUserID(ctx, deps.Users, as)
		if err != nil {
			return errs.Wrap(err, "resolve creator")
		}

		occurredAt := time.Now()
		if raw, _ := cmd.Flags().GetString("occurred-at"); raw != "" {
			occurredAt, err = time.Parse(time.RFC3339, raw)
			if err != nil {
				return fmt.Errorf("occurred-at %q must be RFC 3339", raw)
			}
		}

		rawVehicles, _ := cmd.Flags().GetStringArray("vehicle")
		vehicles := make([]domaincrash.Vehicle, 0, len(rawVehicles))
		for _, raw := range rawVehicles {
			v, err := parseVehicleFlag(raw)
			if err != nil {
				return err
			}
			vehicles = append(vehicles, v)
		}

		input := crash.CreateCrashInput{
			CreatorID:  creatorID,
			OccurredAt: occurredAt,
			Casualties: casualtiesFromFlags(cmd),
			Vehicles:   vehicles,
		}
		input.Borough, _ = cmd.Flags().GetString("borough")
		input.ZipCode, _ = cmd.Flags().GetString("zip")
		input.Latitude, _ = cmd.Flags().GetFloat64("lat")
		input.Longitude, _ = cmd.Flags().GetFloat64("lng")
		input.OnStreet, _ = cmd.Flags().GetString("on-street")
		input.CrossStreet, _ = cmd.Flags().GetString("cross-street")
		input.OffStreet, _ = cmd.Flags().GetString("off-street")
		input.Summary, _ = cmd.Flags().GetString("summary")
		input.Source, _ = cmd.Flags().GetString("source")
		input.CollisionID, _ = cmd.Flags().GetString("collision-id")
		input.Photos, _ = cmd.Flags().GetStringSlice("photo")

		detail, err := deps.Crashes.CreateCrash(ctx, input)
		if err != nil {
			logging.Error(ctx, "create crash failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "create crash")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "created crash: %s\n", detail.Crash.CrashID); err != nil {
			return errs.Wrap(err, "write create output")
		}
		return nil
	}),
}

var crashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent crashes",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		limit, _ := cmd.Flags().GetInt("limit")
		items, err := deps.Crashes.ListCrashes(ctx, limit)
		if err != nil {
			return errs.Wrap(err, "list crashes")
		}
		return renderCrashList(cmd.OutOrStdout(), items)
	}),
}

var crashShowCmd = &cobra.Command{
	Use:   "show <crash-id>",
	Short: "Show crash detail with witnesses and comments",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		as, _ := cmd.Flags().GetString("as")
		viewerID, err := resolveUserID(ctx, deps.Users, as)
		if err != nil {
			return errs.Wrap(err, "resolve viewer")
		}
		detail, err := deps.Crashes.GetCrash(ctx, crash.GetCrashInput{CrashID: cmd.Flags().Arg(0), ViewerID: viewerID})
		if err != nil {
			return errs.Wrap(err, "show crash")
		}
		return renderCrashDetail(cmd.OutOrStdout(), detail)
	}),
}

var crashSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search crashes by keyword, borough and date range",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		criteria := domaincrash.SearchCriteria{}
		criteria.Keyword, _ = cmd.Flags().GetString("keyword")
		criteria.Borough, _ = cmd.Flags().GetString("borough")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		var err error
		if criteria.From, err = parseDayFlag(from); err != nil {
			return err
		}
		if criteria.To, err = parseDayFlag(to); err != nil {
			return err
		}

		items, err := deps.Crashes.SearchCrashes(ctx, criteria)
		if err != nil {
			return errs.Wrap(err, "search crashes")
		}
		return renderCrashList(cmd.OutOrStdout(), items)
	}),
}

var crashVoteCmd = &cobra.Command{
	Use:   "vote <crash-id> <verify|reject>",
	Short: "Verify or reject a crash as a witness",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		as, _ := cmd.Flags().GetString("as")
		voterID, err := resolveUserID(ctx, deps.Users, as)
		if err != nil {
			return errs.Wrap(err, "resolve voter")
		}
		if err := deps.Limiter.Allow(ctx, voterID); err != nil {
			return errs.Wrap(err, "check vote ceiling")
		}

		detail, err := deps.Crashes.CastWitnessVote(ctx, crash.CastWitnessVoteInput{
			CrashID: cmd.Flags().Arg(0),
			VoterID: voterID,
			Vote:    cmd.Flags().Arg(1),
		})
		if err != nil {
			logging.Error(ctx, "cast witness vote failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "cast witness vote")
		}

		pct := detail.Crash.AccuracyPercentage
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "recorded vote on %s: accuracy=%s\n", detail.Crash.CrashID,
			accuracyStyle(pct).Render(fmt.Sprintf("%d%%", pct))); err != nil {
			return errs.Wrap(err, "write vote output")
		}
		return nil
	}),
}

var crashVotesCmd = &cobra.Command{
	Use:   "votes <user-id|handle>",
	Short: "Count witness votes cast by a user",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		userID, err := resolveUserID(ctx, deps.Users, cmd.Flags().Arg(0))
		if err != nil {
			return errs.Wrap(err, "resolve user")
		}
		count, err := deps.Crashes.CountVotesCast(ctx, userID)
		if err != nil {
			return errs.Wrap(err, "count votes")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "votes cast: %d\n", count); err != nil {
			return errs.Wrap(err, "write votes output")
		}
		return nil
	}),
}

var crashCommentCmd = &cobra.Command{
	Use:   "comment <crash-id> <text>",
	Short: "Comment on a crash or reply to a comment",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		as, _ := cmd.Flags().GetString("as")
		authorID, err := resolveUserID(ctx, deps.Users, as)
		if err != nil {
			return errs.Wrap(err, "resolve author")
		}
		replyTo, _ := cmd.Flags().GetString("reply-to")

		item, err := deps.Crashes.PostComment(ctx, crash.PostCommentInput{
			CrashID:         cmd.Flags().Arg(0),
			AuthorID:        authorID,
			Text:            cmd.Flags().Arg(1),
			ParentCommentID: replyTo,
		})
		if err != nil {
			logging.Error(ctx, "post comment failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "post comment")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "posted comment %s on %s\n", item.Comment.ID, item.CrashID); err != nil {
			return errs.Wrap(err, "write comment output")
		}
		return nil
	}),
}

var crashStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show crash and casualty totals by borough and year",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		stats, err := deps.Crashes.Statistics(ctx)
		if err != nil {
			return errs.Wrap(err, "crash statistics")
		}
		return renderStatistics(cmd.OutOrStdout(), stats)
	}),
}

func init() {
	rootCmd.AddCommand(crashCmd)
	crashCmd.AddCommand(crashCreateCmd)
	crashCmd.AddCommand(crashListCmd)
	crashCmd.AddCommand(crashShowCmd)
	crashCmd.AddCommand(crashSearchCmd)
	crashCmd.AddCommand(crashVoteCmd)
	crashCmd.AddCommand(crashVotesCmd)
	crashCmd.AddCommand(crashCommentCmd)
	crashCmd.AddCommand(crashStatsCmd)

	crashCreateCmd.Flags().String("as", "", "Reporter user id or handle")
	crashCreateCmd.Flags().String("occurred-at", "", "When the crash happened (RFC 3339, default now)")
	crashCreateCmd.Flags().String("borough", "", "Borough")
	crashCreateCmd.Flags().String("zip", "", "Zip code")
	crashCreateCmd.Flags().Float64("lat", 0, "Latitude")
	crashCreateCmd.Flags().Float64("lng", 0, "Longitude")
	crashCreateCmd.Flags().String("on-street", "", "Street the crash happened on")
	crashCreateCmd.Flags().String("cross-street", "", "Nearest cross street")
	crashCreateCmd.Flags().String("off-street", "", "Off-street address")
	crashCreateCmd.Flags().String("summary", "", "What happened")
	crashCreateCmd.Flags().String("source", "", "Report source (default: reporter handle)")
	crashCreateCmd.Flags().String("collision-id", "", "Official collision id")
	crashCreateCmd.Flags().StringSlice("photo", nil, "Photo URLs")
	crashCreateCmd.Flags().StringArray("vehicle", nil, "Vehicle as plate=..,type=..,make=..,model=..,year=..")
	for _, name := range casualtyFlags {
		crashCreateCmd.Flags().Int(name, 0, strings.ReplaceAll(name, "-", " "))
	}
	_ = crashCreateCmd.MarkFlagRequired("as")
	_ = crashCreateCmd.MarkFlagRequired("borough")

	crashListCmd.Flags().Int("limit", crash.ResultLimit, "Maximum crashes to list")

	crashShowCmd.Flags().String("as", "", "Viewer user id or handle")

	crashSearchCmd.Flags().String("keyword", "", "Keyword in summary, streets, borough or collision id")
	crashSearchCmd.Flags().String("borough", "", "Borough, or All")
	crashSearchCmd.Flags().String("from", "", "First day (YYYY-MM-DD)")
	crashSearchCmd.Flags().String("to", "", "Last day, inclusive (YYYY-MM-DD)")

	crashVoteCmd.Flags().String("as", "", "Voter user id or handle")
	_ = crashVoteCmd.MarkFlagRequired("as")

	crashCommentCmd.Flags().String("as", "", "Author user id or handle")
	crashCommentCmd.Flags().String("reply-to", "", "Parent comment id")
	_ = crashCommentCmd.MarkFlagRequired("as")
}
