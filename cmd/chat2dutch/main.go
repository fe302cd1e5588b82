package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/chat2dutch/internal/config"
)

var (
	configFile    string
	userID        string
	storageDriver StorageDriver
)

func main() {
	var debugMode bool
	rootCommand := cobra.Command{
		Use:           "chat2dutch",
		Short:         "Learn Dutch vocabulary with a daily quiz",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug mode")
	flags.StringVar(&userID, "user", "default", "learner id used with the mysql storage driver")
	flags.Var(&storageDriver, "storage", fmt.Sprintf("storage driver overriding the config file. Possible values are %v", allStorageDrivers))

	rootCommand.AddCommand(
		newQuizCommand(),
		newChatCommand(),
		newSearchCommand(),
		newTargetCommand(),
		newMilestonesCommand(),
		newProfileCommand(),
		newDictionaryCommand(),
		newAnalyzeCommand(),
		newServeCommand(),
	)
	if err := rootCommand.Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

// setupLogger configures the default logger based on debug mode
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if storageDriver != "" {
		cfg.Storage.Driver = string(storageDriver)
	}
	return cfg, nil
}
