package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/at-ishikawa/chat2dutch/internal/config"
	"github.com/at-ishikawa/chat2dutch/internal/database"
	"github.com/at-ishikawa/chat2dutch/internal/history"
	"github.com/at-ishikawa/chat2dutch/internal/inference"
	"github.com/at-ishikawa/chat2dutch/internal/inference/cache"
	"github.com/at-ishikawa/chat2dutch/internal/inference/openai"
	"github.com/at-ishikawa/chat2dutch/internal/progress"
	"github.com/at-ishikawa/chat2dutch/internal/quiz"
	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
)

var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable is required")

// NewFetcher creates the OpenAI client and closes it on shutdown. Explanations are cached
// on disk when a cache directory is configured.
func (a *App) NewFetcher(cfg config.OpenAIConfig) (inference.Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	client := openai.NewClient(cfg.APIKey, cfg.Model, cfg.MaxRetryAttempts, cfg.Timeout)
	a.AddShutdownHook("openai", func(ctx context.Context) error {
		return client.Close()
	})
	if cfg.CacheDirectory == "" {
		return client, nil
	}
	return cache.NewFileCache(client, cfg.CacheDirectory), nil
}

// NewStoreFactory returns the per-learner stores of the configured driver. The mysql driver
// creates missing tables and closes the connection on shutdown.
func (a *App) NewStoreFactory(ctx context.Context, cfg *config.Config) (quiz.StoreFactory, error) {
	if cfg.Storage.Driver != config.StorageDriverMySQL {
		return quiz.FileStoreFactory{
			UsersDirectory: cfg.Storage.UsersDirectory,
			BaseDictionary: cfg.Storage.DictionaryFile,
		}, nil
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open > %w", err)
	}
	a.AddShutdownHook("database", func(ctx context.Context) error {
		return db.Close()
	})
	if err := database.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("database.Migrate > %w", err)
	}
	return quiz.DBStoreFactory{DB: db}, nil
}

// NewLocalStores returns the stores of the terminal learner: the configured files, or the
// rows of userID with the mysql driver.
func (a *App) NewLocalStores(ctx context.Context, cfg *config.Config, userID string) (quiz.Stores, error) {
	if cfg.Storage.Driver != config.StorageDriverMySQL {
		return quiz.Stores{
			Dictionary: vocabulary.NewCSVRepository(cfg.Storage.DictionaryFile),
			History:    history.NewFileRepository(cfg.Storage.SearchHistoryFile),
			Progress:   progress.NewFileRepository(cfg.Storage.SettingsFile),
		}, nil
	}

	factory, err := a.NewStoreFactory(ctx, cfg)
	if err != nil {
		return quiz.Stores{}, err
	}
	return factory.Stores(ctx, userID)
}

func EngineOptions(cfg *config.Config) []quiz.Option {
	return []quiz.Option{
		quiz.WithMaxUnknownWords(cfg.Quiz.MaxUnknownWords),
		quiz.WithMilestoneDeduplication(cfg.Quiz.DeduplicateMilestones),
		// The client already bounds each attempt; this bounds the retries together.
		quiz.WithFetchTimeout(cfg.OpenAI.Timeout * time.Duration(cfg.OpenAI.MaxRetryAttempts+1)),
	}
}

// NewRegistry assembles the multi-learner quiz service.
func (a *App) NewRegistry(ctx context.Context, cfg *config.Config) (*quiz.Registry, error) {
	fetcher, err := a.NewFetcher(cfg.OpenAI)
	if err != nil {
		return nil, err
	}
	factory, err := a.NewStoreFactory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return quiz.NewRegistry(factory, fetcher, EngineOptions(cfg)...), nil
}

// NewEngine assembles the quiz engine of the terminal learner.
func (a *App) NewEngine(ctx context.Context, cfg *config.Config, userID string) (*quiz.Engine, error) {
	fetcher, err := a.NewFetcher(cfg.OpenAI)
	if err != nil {
		return nil, err
	}
	stores, err := a.NewLocalStores(ctx, cfg, userID)
	if err != nil {
		return nil, err
	}
	return quiz.NewEngine(
		stores.Dictionary,
		history.NewStore(stores.History),
		progress.NewStore(stores.Progress),
		fetcher,
		EngineOptions(cfg)...,
	), nil
}
