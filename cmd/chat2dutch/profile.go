package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/chat2dutch/internal/bootstrap"
	"github.com/at-ishikawa/chat2dutch/internal/progress"
)

// runWithProgress runs fn with the progress store of the terminal learner. It needs no API key.
func runWithProgress(cmd *cobra.Command, fn func(ctx context.Context, store *progress.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	app := bootstrap.New()
	return app.Run(cmd.Context(), func(ctx context.Context) error {
		stores, err := app.NewLocalStores(ctx, cfg, userID)
		if err != nil {
			return err
		}
		return fn(ctx, progress.NewStore(stores.Progress))
	})
}

func newTargetCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "target",
		Short: "Daily target commands",
	}

	command.AddCommand(&cobra.Command{
		Use:   "set <words>",
		Short: "Set how many words the daily quiz presents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", progress.ErrInvalidDailyTarget, args[0])
			}
			return runWithProgress(cmd, func(ctx context.Context, store *progress.Store) error {
				if _, err := store.SetDailyTarget(ctx, target); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Daily target set to %d.\n", target)
				return err
			})
		},
	})
	command.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the daily target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithProgress(cmd, func(ctx context.Context, store *progress.Store) error {
				if _, err := store.ClearDailyTarget(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Daily target cleared.")
				return err
			})
		},
	})
	return command
}

func newMilestonesCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "milestones",
		Short: "Milestone reward commands",
	}

	command.AddCommand(&cobra.Command{
		Use:   "set <words> <reward> [<words> <reward>...]",
		Short: "Replace the milestones; pairs with an invalid word count are skipped",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return fmt.Errorf("expected pairs of <words> <reward>, got %d arguments", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([]progress.MilestoneRow, 0, len(args)/2)
			for i := 0; i < len(args); i += 2 {
				rows = append(rows, progress.MilestoneRow{Milestone: args[i], Reward: args[i+1]})
			}
			return runWithProgress(cmd, func(ctx context.Context, store *progress.Store) error {
				profile, err := store.UpsertMilestones(ctx, rows)
				if err != nil {
					return err
				}
				return printMilestones(cmd.OutOrStdout(), profile)
			})
		},
	})
	command.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every milestone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithProgress(cmd, func(ctx context.Context, store *progress.Store) error {
				if _, err := store.ClearMilestones(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Milestones cleared.")
				return err
			})
		},
	})
	command.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the milestones and the ones already reached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithProgress(cmd, func(ctx context.Context, store *progress.Store) error {
				profile, err := store.Profile(ctx)
				if err != nil {
					return err
				}
				if err := printMilestones(cmd.OutOrStdout(), profile); err != nil {
					return err
				}
				for _, message := range progress.CheckMilestones(profile) {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), message); err != nil {
						return err
					}
				}
				return nil
			})
		},
	})
	return command
}

func newProfileCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "profile",
		Short: "Learner profile commands",
	}

	command.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the daily target, milestones and words learned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithProgress(cmd, func(ctx context.Context, store *progress.Store) error {
				profile, err := store.Profile(ctx)
				if err != nil {
					return err
				}
				target := "not set"
				if profile.HasDailyTarget() {
					target = strconv.Itoa(*profile.DailyTarget)
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Daily target: %s\nWords learned: %d\n", target, profile.TotalWordsLearned); err != nil {
					return err
				}
				return printMilestones(cmd.OutOrStdout(), profile)
			})
		},
	})
	command.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the daily target and every milestone; words learned are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithProgress(cmd, func(ctx context.Context, store *progress.Store) error {
				if _, err := store.Clear(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Daily target and milestones cleared.")
				return err
			})
		},
	})
	return command
}

func printMilestones(w io.Writer, profile progress.Profile) error {
	if len(profile.Milestones) == 0 {
		_, err := fmt.Fprintln(w, "No milestones.")
		return err
	}
	for _, milestone := range profile.Milestones {
		if _, err := fmt.Fprintf(w, "%d words: %s\n", milestone.Threshold, milestone.Reward); err != nil {
			return err
		}
	}
	return nil
}
