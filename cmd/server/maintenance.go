package main

import (
	"context"
	"encoding/json"
	"fmt"

	fxmodules "cricket-score/internal/fx"
	"cricket-score/internal/importer"
	"cricket-score/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// withCore starts the core module without the network surface, hands the
// populated targets to fn and stops the app afterwards.
func withCore(ctx context.Context, fn func() error, targets ...any) error {
	app := fx.New(
		fxmodules.CoreModule,
		fx.NopLogger,
		fx.Populate(targets...),
	)
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	runErr := fn()
	if err := app.Stop(context.WithoutCancel(ctx)); err != nil && runErr == nil {
		return fmt.Errorf("failed to stop: %w", err)
	}
	return runErr
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <roster.yaml>",
		Short: "Upsert tournament, teams, players, groups and fixtures from a YAML file",
		Long: `Import reads a roster file and upserts everything in it in one transaction.
Names are the keys: running the same file twice changes nothing, and an
unknown team name anywhere rolls the whole file back.

Example:
  cricket-score import ./rosters/summer-cup.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := importer.ParseFile(args[0])
			if err != nil {
				return err
			}
			var roster *service.RosterService
			return withCore(cmd.Context(), func() error {
				summary, err := roster.Import(cmd.Context(), *batch)
				if err != nil {
					return err
				}
				return printJSON(cmd, summary)
			}, &roster)
		},
	}
}

func newRebuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild <matchId>",
		Short: "Recompute a match's innings, player stats and live counters from its ball log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var matches *service.MatchService
			return withCore(cmd.Context(), func() error {
				view, err := matches.RebuildMatch(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, view)
			}, &matches)
		},
	}
}
