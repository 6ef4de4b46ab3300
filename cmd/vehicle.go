package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

var vehicleCmd = &cobra.Command{
	Use:   "vehicle",
	Short: "Look up vehicles involved in reported crashes",
}

var vehicleLookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Find crash vehicles matching every given field",
	RunE: withApp(func(cmd *cobra.Command, deps appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		criteria := domaincrash.VehicleCriteria{}
		criteria.PlateID, _ = cmd.Flags().GetString("plate")
		criteria.VehicleType, _ = cmd.Flags().GetString("type")
		criteria.Make, _ = cmd.Flags().GetString("make")
		criteria.Model, _ = cmd.Flags().GetString("model")
		criteria.Year, _ = cmd.Flags().GetString("year")

		matches, err := deps.Crashes.LookupVehicles(ctx, criteria)
		if err != nil {
			return errs.Wrap(err, "lookup vehicles")
		}
		return renderVehicleMatches(cmd.OutOrStdout(), matches)
	}),
}

func init() {
	rootCmd.AddCommand(vehicleCmd)
	vehicleCmd.AddCommand(vehicleLookupCmd)

	vehicleLookupCmd.Flags().String("plate", "", "Plate id")
	vehicleLookupCmd.Flags().String("type", "", "Vehicle type")
	vehicleLookupCmd.Flags().String("make", "", "Make")
	vehicleLookupCmd.Flags().String("model", "", "Model")
	vehicleLookupCmd.Flags().String("year", "", "Model year")
}
