package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:            StorageDriverFile,
			DictionaryFile:    "dutch_dictionary.csv",
			SearchHistoryFile: "search_history.csv",
			SettingsFile:      "profile_settings.json",
			UsersDirectory:    "users",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "chat2dutch",
			Username: "user",
		},
		OpenAI: OpenAIConfig{
			Model:            "gpt-3.5-turbo",
			Timeout:          30 * time.Second,
			MaxRetryAttempts: 3,
		},
		Quiz: QuizConfig{
			MaxUnknownWords: 10,
		},
		Server: ServerConfig{
			Port:               8000,
			RateLimitPerMinute: 120,
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000"},
			},
		},
		Wordlists: WordlistsConfig{
			WordsURL:          "https://raw.githubusercontent.com/OpenTaal/opentaal-wordlist/master/wordlist.txt",
			FrequencyURL:      "https://raw.githubusercontent.com/hermitdave/FrequencyWords/master/content/2018/nl/nl_50k.txt",
			DownloadDirectory: filepath.Join("dictionaries", "downloads"),
		},
	}
}

func TestConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:          "no config file uses defaults",
			configContent: "",
			want:          defaultConfig,
		},
		{
			name: "custom values",
			configContent: `storage:
  dictionary_file: data/dictionary.csv
  search_history_file: data/history.csv
  settings_file: data/profile.yml
quiz:
  max_unknown_words: 5
  deduplicate_milestones: true
openai:
  timeout: 5s
  max_retry_attempts: 1
  cache_directory: data/explanations
`,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Storage.DictionaryFile = "data/dictionary.csv"
				cfg.Storage.SearchHistoryFile = "data/history.csv"
				cfg.Storage.SettingsFile = "data/profile.yml"
				cfg.Quiz.MaxUnknownWords = 5
				cfg.Quiz.DeduplicateMilestones = true
				cfg.OpenAI.Timeout = 5 * time.Second
				cfg.OpenAI.MaxRetryAttempts = 1
				cfg.OpenAI.CacheDirectory = "data/explanations"
				return cfg
			},
		},
		{
			name: "explicit config file path",
			configContent: `storage:
  driver: mysql
database:
  host: db.example.com
  port: 3307
`,
			useExplicitPath: true,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Storage.Driver = StorageDriverMySQL
				cfg.Database.Host = "db.example.com"
				cfg.Database.Port = 3307
				return cfg
			},
		},
		{
			name:          "secrets come from environment variables",
			configContent: "",
			env: map[string]string{
				"OPENAI_API_KEY": "sk-test",
				"OPENAI_MODEL":   "gpt-4o-mini",
				"DB_PASSWORD":    "secret",
			},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.OpenAI.APIKey = "sk-test"
				cfg.OpenAI.Model = "gpt-4o-mini"
				cfg.Database.Password = "secret"
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `storage:
  driver: file
  invalid yaml format here [[[
`,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "unknown storage driver",
			configContent: `storage:
  driver: sqlite
`,
			wantErrorContains: []string{"invalid configuration", "driver must be one of [file mysql]"},
		},
		{
			name: "non-positive unknown word limit",
			configContent: `quiz:
  max_unknown_words: 0
`,
			wantErrorContains: []string{"invalid configuration", "max_unknown_words must be greater than 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"OPENAI_API_KEY", "OPENAI_MODEL", "DB_PASSWORD"} {
				t.Setenv(key, tt.env[key])
			}
			tempDir := t.TempDir()
			t.Chdir(tempDir)

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "custom.yml")
				require.NoError(t, os.WriteFile(configPath, []byte(tt.configContent), 0644))
			} else if tt.configContent != "" {
				require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(tt.configContent), 0644))
			}

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)
			got, err := loader.Load()

			if len(tt.wantErrorContains) > 0 {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestConfigLoader_Load_DotEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	require.NoError(t, os.Unsetenv("OPENAI_API_KEY"))
	tempDir := t.TempDir()
	t.Chdir(tempDir)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".env"), []byte("OPENAI_API_KEY=from-dotenv\n"), 0644))

	loader, err := NewConfigLoader("")
	require.NoError(t, err)
	got, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", got.OpenAI.APIKey)
}

func TestStorageConfig_UserDirectory(t *testing.T) {
	cfg := StorageConfig{UsersDirectory: filepath.Join("data", "users")}
	assert.Equal(t, filepath.Join("data", "users", "42"), cfg.UserDirectory("42"))
}
