package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/chat2dutch/internal/config"
	"github.com/at-ishikawa/chat2dutch/internal/testutil"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantDebug bool
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantDebug: true,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantDebug: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			assert.Equal(t, tt.wantDebug, slog.Default().Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestStorageDriver_Set(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    StorageDriver
		wantErr bool
	}{
		{
			name:  "file",
			value: "file",
			want:  StorageDriverFile,
		},
		{
			name:  "mysql",
			value: "mysql",
			want:  StorageDriverMySQL,
		},
		{
			name:    "invalid driver",
			value:   "sqlite",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var driver StorageDriver
			err := driver.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "invalid storage driver")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, driver)
		})
	}
}

func TestStorageDriver_StringAndType(t *testing.T) {
	driver := StorageDriverMySQL
	assert.Equal(t, "mysql", driver.String())
	assert.Equal(t, "StorageDriver", driver.Type())
}

func TestLoadConfig(t *testing.T) {
	paths := testutil.SetupTestConfig(t, t.TempDir())
	setConfigFile(t, paths.Config)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.StorageDriverFile, cfg.Storage.Driver)
	assert.Equal(t, paths.Dictionary, cfg.Storage.DictionaryFile)

	oldDriver := storageDriver
	storageDriver = StorageDriverMySQL
	t.Cleanup(func() { storageDriver = oldDriver })

	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.StorageDriverMySQL, cfg.Storage.Driver)
}

func TestLoadConfig_Broken(t *testing.T) {
	setConfigFile(t, setupBrokenConfigFile(t))

	_, err := loadConfig()
	assert.Error(t, err)
}
