package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/chat2dutch/internal/bootstrap"
	"github.com/at-ishikawa/chat2dutch/internal/chat"
	"github.com/at-ishikawa/chat2dutch/internal/cli"
	"github.com/at-ishikawa/chat2dutch/internal/quiz"
)

// runWithEngine loads the configuration and runs fn with the engine of the terminal learner.
func runWithEngine(cmd *cobra.Command, fn func(ctx context.Context, engine *quiz.Engine) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	app := bootstrap.New()
	return app.Run(cmd.Context(), func(ctx context.Context) error {
		engine, err := app.NewEngine(ctx, cfg, userID)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Using OpenAI provider (model: %s)\n", cfg.OpenAI.Model)
		return fn(ctx, engine)
	})
}

func newQuizCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "quiz",
		Short: "Start the daily quiz: answer k (known), u (unknown) or q (quit) for each word",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *quiz.Engine) error {
				return cli.NewDailyQuizCLI(engine, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
			})
		},
	}
}

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant: 'daily quiz', 'known', 'unknown' or 'word?'",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *quiz.Engine) error {
				return cli.NewChatCLI(chat.NewAssistant(engine), cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
			})
		},
	}
}

func newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <word>",
		Short: "Explain a Dutch word and add it to the search history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *quiz.Engine) error {
				result, err := engine.Search(ctx, strings.Join(args, " "))
				if err != nil {
					return fmt.Errorf("engine.Search > %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Message)
				return err
			})
		},
	}
}
