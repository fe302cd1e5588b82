package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/chat2dutch/internal/config"
	"github.com/at-ishikawa/chat2dutch/internal/history"
	"github.com/at-ishikawa/chat2dutch/internal/progress"
	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	paths := SetupTestConfigWithAPIKey(t, tmpDir)

	loader, err := config.NewConfigLoader(paths.Config)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, paths.Dictionary, cfg.Storage.DictionaryFile)
	assert.Equal(t, paths.SearchHistory, cfg.Storage.SearchHistoryFile)
	assert.Equal(t, paths.Settings, cfg.Storage.SettingsFile)
	assert.Equal(t, paths.UsersDirectory, cfg.Storage.UsersDirectory)
	assert.Equal(t, "fake-key-for-testing", cfg.OpenAI.APIKey)
	assert.Equal(t, uint(0), cfg.OpenAI.MaxRetryAttempts)
}

func TestFixtureWriters(t *testing.T) {
	tmpDir := t.TempDir()
	paths := SetupTestConfig(t, tmpDir)
	ctx := context.Background()

	entries := UnknownEntries("de", "het", "een")
	WriteDictionary(t, paths.Dictionary, entries)
	WriteHistory(t, paths.SearchHistory, "het")
	WriteProfile(t, paths.Settings, QuizReadyProfile(5))

	gotEntries, err := vocabulary.NewCSVRepository(paths.Dictionary).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, gotEntries)
	assert.Equal(t, []int{30, 20, 10}, []int{gotEntries[0].Frequency, gotEntries[1].Frequency, gotEntries[2].Frequency})

	gotHistory, err := history.NewFileRepository(paths.SearchHistory).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"het"}, gotHistory)

	gotProfile, err := progress.NewFileRepository(paths.Settings).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, QuizReadyProfile(5), gotProfile)

	_, err = os.Stat(paths.UsersDirectory)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
