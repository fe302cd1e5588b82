// Package testutil provides shared test helpers for creating config files and learner state fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/chat2dutch/internal/history"
	"github.com/at-ishikawa/chat2dutch/internal/progress"
	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
)

// FixedTime is the Last Updated value of fixture entries.
var FixedTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)

// Paths are the learner state files created by SetupTestConfig.
type Paths struct {
	Config         string
	Dictionary     string
	SearchHistory  string
	Settings       string
	UsersDirectory string
}

// SetupTestConfig creates a config file whose storage points into tmpDir.
func SetupTestConfig(t *testing.T, tmpDir string) Paths {
	t.Helper()

	paths := Paths{
		Config:         filepath.Join(tmpDir, "config.yml"),
		Dictionary:     filepath.Join(tmpDir, "dutch_dictionary.csv"),
		SearchHistory:  filepath.Join(tmpDir, "search_history.csv"),
		Settings:       filepath.Join(tmpDir, "profile_settings.json"),
		UsersDirectory: filepath.Join(tmpDir, "users"),
	}
	configContent := fmt.Sprintf(`storage:
  driver: file
  dictionary_file: %s
  search_history_file: %s
  settings_file: %s
  users_directory: %s
wordlists:
  download_directory: %s
`,
		paths.Dictionary,
		paths.SearchHistory,
		paths.Settings,
		paths.UsersDirectory,
		filepath.Join(tmpDir, "downloads"),
	)
	require.NoError(t, os.WriteFile(paths.Config, []byte(configContent), 0644))
	return paths
}

// SetupTestConfigWithAPIKey also sets a fake OpenAI API key for commands that need one.
func SetupTestConfigWithAPIKey(t *testing.T, tmpDir string) Paths {
	t.Helper()
	paths := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(paths.Config)
	require.NoError(t, err)
	content = append(content, []byte("openai:\n  api_key: fake-key-for-testing\n  max_retry_attempts: 0\n")...)
	require.NoError(t, os.WriteFile(paths.Config, content, 0644))
	return paths
}

// Entry builds a dictionary entry updated at FixedTime.
func Entry(word string, frequency int, known bool) vocabulary.Entry {
	return vocabulary.Entry{
		Word:        word,
		Frequency:   frequency,
		Status:      vocabulary.StatusOf(known),
		LastUpdated: FixedTime,
	}
}

// UnknownEntries builds unknown entries with frequencies counting down from len(words)*10.
func UnknownEntries(words ...string) []vocabulary.Entry {
	entries := make([]vocabulary.Entry, 0, len(words))
	for i, word := range words {
		entries = append(entries, Entry(word, (len(words)-i)*10, false))
	}
	return entries
}

func WriteDictionary(t *testing.T, path string, entries []vocabulary.Entry) {
	t.Helper()
	require.NoError(t, vocabulary.NewCSVRepository(path).Save(context.Background(), entries))
}

func WriteHistory(t *testing.T, path string, words ...string) {
	t.Helper()
	require.NoError(t, history.NewFileRepository(path).Save(context.Background(), words))
}

func WriteProfile(t *testing.T, path string, profile progress.Profile) {
	t.Helper()
	require.NoError(t, progress.NewFileRepository(path).Save(context.Background(), profile))
}

// QuizReadyProfile has a daily target and a single milestone, enough to start a quiz.
func QuizReadyProfile(dailyTarget int) progress.Profile {
	return progress.Profile{
		DailyTarget: &dailyTarget,
		Milestones:  []progress.Milestone{{Threshold: 1, Reward: "stroopwafel"}},
	}
}
