package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	DriverDiskv  = "diskv"
	DriverSQLite = "sqlite"

	sqliteFile = "journal.db"
)

// Config tells Open where and how to persist the namespace.
type Config interface {
	BasePath() string
	Driver() string
}

// FileConfig is the configuration read from .journally, the JOURNALLY_*
// environment and an optional .env file.
type FileConfig struct {
	Path          string  `json:"path"`
	Backend       string  `json:"driver"`
	Provider      string  `json:"provider"`
	Model         string  `json:"model"`
	Temperature   float32 `json:"temperature"`
	MaxDailyCalls int     `json:"max_daily_calls"`
	OpenAIKey     string  `json:"-"`
	GeminiKey     string  `json:"-"`
	OpenAIBaseURL string  `json:"-"`
	File          string  `json:"-"`
}

func LoadConfig() (*FileConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debug().Err(err).Msg("config: .env not loaded")
	}

	v := viper.New()
	v.SetDefault("path", "~/.journally")
	v.SetDefault("driver", DriverDiskv)
	v.SetDefault("provider", "openai")
	v.SetDefault("model", "gpt-3.5-turbo")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("max_daily_calls", 10)
	v.SetConfigName(".journally") // .yaml is implicit
	v.SetEnvPrefix("JOURNALLY")
	v.AutomaticEnv()

	if override := os.Getenv("JOURNALLY_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, errors.Wrapf(err, "expanding path %q", v.GetString("path"))
	}

	cfg := &FileConfig{
		Path:          path,
		Backend:       strings.ToLower(strings.TrimSpace(v.GetString("driver"))),
		Provider:      strings.ToLower(strings.TrimSpace(v.GetString("provider"))),
		Model:         v.GetString("model"),
		Temperature:   float32(v.GetFloat64("temperature")),
		MaxDailyCalls: v.GetInt("max_daily_calls"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		File:          v.ConfigFileUsed(),
	}
	if cfg.MaxDailyCalls <= 0 {
		cfg.MaxDailyCalls = 10
	}
	return cfg, nil
}

func (f *FileConfig) BasePath() string {
	return f.Path
}

func (f *FileConfig) Driver() string {
	return f.Backend
}

// Open returns the KV selected by cfg. A nil cfg loads the default config.
func Open(cfg Config) (KV, error) {
	if cfg == nil {
		fc, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = fc
	}

	switch cfg.Driver() {
	case "", DriverDiskv:
		return OpenDiskKV(cfg.BasePath())
	case DriverSQLite:
		return OpenSQLiteKV(filepath.Join(cfg.BasePath(), sqliteFile))
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver())
	}
}
