package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/chat2dutch/internal/flatfile"
	"github.com/at-ishikawa/chat2dutch/internal/history"
	"github.com/at-ishikawa/chat2dutch/internal/progress"
	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
)

const (
	DictionaryFileName    = "dutch_dictionary.csv"
	SearchHistoryFileName = "search_history.csv"
	SettingsFileName      = "profile_settings.json"
)

// FileStoreFactory keeps each learner's files in their own directory below UsersDirectory.
// A learner without a dictionary gets a copy of BaseDictionary.
type FileStoreFactory struct {
	UsersDirectory string
	BaseDictionary string
}

func (f FileStoreFactory) Stores(ctx context.Context, userID string) (Stores, error) {
	dir := filepath.Join(f.UsersDirectory, userID)
	dictionary := vocabulary.NewCSVRepository(filepath.Join(dir, DictionaryFileName))

	exists, err := flatfile.Exists(dictionary.Path())
	if err != nil {
		return Stores{}, fmt.Errorf("flatfile.Exists > %w", err)
	}
	if !exists {
		entries, err := vocabulary.NewCSVRepository(f.BaseDictionary).Load(ctx)
		if err != nil {
			return Stores{}, fmt.Errorf("load base dictionary %s > %w", f.BaseDictionary, err)
		}
		if err := dictionary.Save(ctx, entries); err != nil {
			return Stores{}, fmt.Errorf("dictionary.Save > %w", err)
		}
		slog.Default().Info("seeded learner dictionary", "user", userID, "words", len(entries))
	}

	return Stores{
		Dictionary: dictionary,
		History:    history.NewFileRepository(filepath.Join(dir, SearchHistoryFileName)),
		Progress:   progress.NewFileRepository(filepath.Join(dir, SettingsFileName)),
	}, nil
}

// DBStoreFactory keys every table by user id.
type DBStoreFactory struct {
	DB *sqlx.DB
}

func (f DBStoreFactory) Stores(ctx context.Context, userID string) (Stores, error) {
	return Stores{
		Dictionary: vocabulary.NewDBRepository(f.DB, userID),
		History:    history.NewDBRepository(f.DB, userID),
		Progress:   progress.NewDBRepository(f.DB, userID),
	}, nil
}
