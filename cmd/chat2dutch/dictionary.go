package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/chat2dutch/internal/bootstrap"
	"github.com/at-ishikawa/chat2dutch/internal/config"
	"github.com/at-ishikawa/chat2dutch/internal/history"
	"github.com/at-ishikawa/chat2dutch/internal/progress"
	"github.com/at-ishikawa/chat2dutch/internal/quiz"
	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
	"github.com/at-ishikawa/chat2dutch/internal/wordlist"
)

// runWithStores runs fn with the stores of the terminal learner.
func runWithStores(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, app *bootstrap.App, stores quiz.Stores) error) error {
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
		return fn(ctx, cfg, app, stores)
	})
}

func newDictionaryCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "dictionary",
		Short: "Dictionary commands",
	}
	command.AddCommand(
		newDictionaryBuildCommand(),
		newDictionaryShowCommand(),
		newDictionaryImportCommand(),
	)
	return command
}

func newDictionaryBuildCommand() *cobra.Command {
	var refresh bool
	command := &cobra.Command{
		Use:   "build",
		Short: "Build the dictionary from the Dutch word list and word frequencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStores(cmd, func(ctx context.Context, cfg *config.Config, app *bootstrap.App, stores quiz.Stores) error {
				builder := wordlist.NewBuilder(
					wordlist.NewDownloader(cfg.Wordlists.DownloadDirectory),
					cfg.Wordlists.WordsURL,
					cfg.Wordlists.FrequencyURL,
				)
				entries, err := builder.Build(ctx, stores.Dictionary, refresh)
				if err != nil {
					return fmt.Errorf("builder.Build > %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Dictionary built with %d words.\n", len(entries))
				return err
			})
		},
	}
	command.Flags().BoolVar(&refresh, "refresh", false, "download the word lists again")
	return command
}

func newDictionaryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <word>",
		Short: "Show the frequency and status of a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStores(cmd, func(ctx context.Context, cfg *config.Config, app *bootstrap.App, stores quiz.Stores) error {
				entries, err := stores.Dictionary.Load(ctx)
				if err != nil {
					return fmt.Errorf("dictionary.Load > %w", err)
				}
				entry, ok := vocabulary.Find(entries, args[0])
				if !ok {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), "Word not found.")
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), entry.Format())
				return err
			})
		},
	}
}

// newDictionaryImportCommand copies the learner files into the MySQL tables of --user.
func newDictionaryImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Copy the dictionary, search history and profile files into MySQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			app := bootstrap.New()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				dbConfig := *cfg
				dbConfig.Storage.Driver = config.StorageDriverMySQL
				factory, err := app.NewStoreFactory(ctx, &dbConfig)
				if err != nil {
					return err
				}
				target, err := factory.Stores(ctx, userID)
				if err != nil {
					return fmt.Errorf("factory.Stores(%s) > %w", userID, err)
				}
				return importStores(ctx, cmd, quiz.Stores{
					Dictionary: vocabulary.NewCSVRepository(cfg.Storage.DictionaryFile),
					History:    history.NewFileRepository(cfg.Storage.SearchHistoryFile),
					Progress:   progress.NewFileRepository(cfg.Storage.SettingsFile),
				}, target)
			})
		},
	}
}

func importStores(ctx context.Context, cmd *cobra.Command, source, target quiz.Stores) error {
	entries, err := source.Dictionary.Load(ctx)
	if err != nil {
		return fmt.Errorf("source dictionary.Load > %w", err)
	}
	if err := target.Dictionary.Save(ctx, entries); err != nil {
		return fmt.Errorf("target dictionary.Save > %w", err)
	}

	words, err := source.History.Load(ctx)
	if err != nil {
		return fmt.Errorf("source history.Load > %w", err)
	}
	if err := target.History.Save(ctx, words); err != nil {
		return fmt.Errorf("target history.Save > %w", err)
	}

	profile, err := source.Progress.Load(ctx)
	switch {
	case errors.Is(err, progress.ErrNoProfile):
	case err != nil:
		return fmt.Errorf("source progress.Load > %w", err)
	default:
		if err := target.Progress.Save(ctx, profile); err != nil {
			return fmt.Errorf("target progress.Save > %w", err)
		}
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d words and %d searches for %s.\n", len(entries), len(words), userID)
	return err
}
