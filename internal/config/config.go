package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverFile  = "file"
	StorageDriverMySQL = "mysql"
)

type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Server    ServerConfig    `mapstructure:"server"`
	Wordlists WordlistsConfig `mapstructure:"wordlists"`
}

// StorageConfig locates the learner's state. The file paths are used by the single-user
// CLI; the server keeps one copy of each file per user below UsersDirectory.
type StorageConfig struct {
	Driver            string `mapstructure:"driver" validate:"oneof=file mysql"`
	DictionaryFile    string `mapstructure:"dictionary_file" validate:"required"`
	SearchHistoryFile string `mapstructure:"search_history_file" validate:"required"`
	SettingsFile      string `mapstructure:"settings_file" validate:"required"`
	UsersDirectory    string `mapstructure:"users_directory" validate:"required"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type OpenAIConfig struct {
	APIKey           string        `mapstructure:"api_key"`
	Model            string        `mapstructure:"model" validate:"required"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetryAttempts uint          `mapstructure:"max_retry_attempts"`
	// CacheDirectory keeps explanations on disk. Empty disables the cache.
	CacheDirectory string `mapstructure:"cache_directory"`
}

type QuizConfig struct {
	MaxUnknownWords       int  `mapstructure:"max_unknown_words" validate:"gt=0"`
	DeduplicateMilestones bool `mapstructure:"deduplicate_milestones"`
}

type ServerConfig struct {
	Port               int        `mapstructure:"port" validate:"gt=0,lte=65535"`
	RateLimitPerMinute int        `mapstructure:"rate_limit_per_minute" validate:"gte=0"`
	CORS               CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type WordlistsConfig struct {
	WordsURL          string `mapstructure:"words_url" validate:"required,url"`
	FrequencyURL      string `mapstructure:"frequency_url" validate:"required,url"`
	DownloadDirectory string `mapstructure:"download_directory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
	envFile    string
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/chat2dutch")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
		envFile:    ".env",
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	// Existing environment variables win over the .env file.
	if err := godotenv.Load(loader.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", loader.envFile, err)
	}

	v.SetDefault("storage.driver", StorageDriverFile)
	v.SetDefault("storage.dictionary_file", "dutch_dictionary.csv")
	v.SetDefault("storage.search_history_file", "search_history.csv")
	v.SetDefault("storage.settings_file", "profile_settings.json")
	v.SetDefault("storage.users_directory", "users")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "chat2dutch")
	v.SetDefault("database.username", "user")
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.timeout", 30*time.Second)
	v.SetDefault("openai.max_retry_attempts", 3)
	v.SetDefault("quiz.max_unknown_words", 10)
	v.SetDefault("quiz.deduplicate_milestones", false)
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.rate_limit_per_minute", 120)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("wordlists.words_url", "https://raw.githubusercontent.com/OpenTaal/opentaal-wordlist/master/wordlist.txt")
	v.SetDefault("wordlists.frequency_url", "https://raw.githubusercontent.com/hermitdave/FrequencyWords/master/content/2018/nl/nl_50k.txt")
	v.SetDefault("wordlists.download_directory", filepath.Join("dictionaries", "downloads"))

	// Secrets are bound to environment variables only (not from config file)
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("openai.model", "OPENAI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_MODEL environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// UserDirectory is where the server keeps the files of one user.
func (c StorageConfig) UserDirectory(userID string) string {
	return filepath.Join(c.UsersDirectory, userID)
}
