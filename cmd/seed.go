package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"symptomminder/internal/bootstrap"
	"symptomminder/internal/bootstrap/logging"
	"symptomminder/internal/domain/symptom"
	"symptomminder/internal/errs"
)

// seedCmd bulk-loads entry documents from a JSON file. Every document runs
// through the same normalize and validate path as a live save; audits are
// suppressed so a large import does not burn panel tokens.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Bulk-load symptom entries from a JSON file",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svcs appServices) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		file, _ := cmd.Flags().GetString("file")
		reset, _ := cmd.Flags().GetBool("reset")
		if file == "" {
			return errors.New("--file is required")
		}

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		raw, err := os.ReadFile(file)
		if err != nil {
			return errs.Wrapf(err, "read seed file %s", file)
		}
		var drafts []map[string]any
		if err := json.Unmarshal(raw, &drafts); err != nil {
			return errs.Wrapf(err, "decode seed file %s", file)
		}

		if reset {
			if err := svcs.Tracker.ResetEntries(ctx); err != nil {
				return errs.Wrap(err, "reset entries")
			}
			logging.Info(ctx, "existing entries dropped")
		}

		loaded := 0
		skipped := 0
		for i, draft := range drafts {
			entry, err := symptom.ParseEntry(symptom.NormalizeDraft(draft))
			if err != nil {
				skipped++
				logging.Warn(ctx, "seed document rejected", slog.Int("index", i), slog.Any("err", errs.Loggable(err)))
				continue
			}
			if _, err := svcs.Entries.Index(ctx, entry, ""); err != nil {
				return errs.Wrapf(err, "index seed document %d", i)
			}
			loaded++
		}

		logging.Info(ctx, "seed finished", slog.Int("loaded", loaded), slog.Int("skipped", skipped))
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "seeded %d entries (%d rejected)\n", loaded, skipped); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("file", "", "JSON file with an array of entry documents")
	seedCmd.Flags().Bool("reset", false, "Drop existing entries before loading")
}
