package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"symptomminder/internal/bootstrap"
	"symptomminder/internal/bootstrap/logging"
	"symptomminder/internal/errs"
)

var counterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Inspect or reset the audit trigger counter",
}

var counterReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Print the current trigger counter value",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svcs appServices) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		value, err := svcs.Counter.Read(ctx)
		if err != nil {
			return errs.Wrap(err, "read trigger counter")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "trigger counter: %d\n", value); err != nil {
			return errs.Wrap(err, "write counter output")
		}
		return nil
	}),
}

var counterResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the trigger counter to zero",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svcs appServices) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		if err := svcs.Counter.Reset(ctx); err != nil {
			return errs.Wrap(err, "reset trigger counter")
		}
		logging.Info(ctx, "trigger counter reset")
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "trigger counter reset to 0"); err != nil {
			return errs.Wrap(err, "write counter output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(counterCmd)
	counterCmd.AddCommand(counterReadCmd)
	counterCmd.AddCommand(counterResetCmd)
}
