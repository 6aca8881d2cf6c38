package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"quicknote/internal/domain/voice"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	API    APIConfig
	TTS    TTSConfig
	Voices VoicesConfig
	Log    LogConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type TTSConfig struct {
	Engine    string
	Voice     string
	Rate      int
	CachePath string
}

type VoicesConfig struct {
	CacheDir string
	MaxAge   time.Duration
}

type LogConfig struct {
	Level string
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("api.base_url", "http://localhost:5000")
	viper.SetDefault("api.timeout", 0) // no timeout, like the browser client

	viper.SetDefault("tts.engine", "remote")
	viper.SetDefault("tts.voice", "")
	viper.SetDefault("tts.rate", voice.DefaultRate)
	viper.SetDefault("tts.cache_path", filepath.Join(cacheDirectory(), "audio"))

	viper.SetDefault("voices.cache_dir", "") // snapshot disabled
	viper.SetDefault("voices.max_age", 24*time.Hour)

	viper.SetDefault("log.level", "warn")
}

// Init loads .env files and the optional config file. An explicit cfgFile
// must exist; the default search locations may be empty.
func Init(cfgFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	SetDefaults()

	viper.SetEnvPrefix("quicknote")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
		return nil
	}

	viper.SetConfigName("quicknote")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.quicknote")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// Load builds a Config from viper and validates it.
func Load() (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL: viper.GetString("api.base_url"),
			Timeout: viper.GetDuration("api.timeout"),
		},
		TTS: TTSConfig{
			Engine:    viper.GetString("tts.engine"),
			Voice:     viper.GetString("tts.voice"),
			Rate:      viper.GetInt("tts.rate"),
			CachePath: viper.GetString("tts.cache_path"),
		},
		Voices: VoicesConfig{
			CacheDir: viper.GetString("voices.cache_dir"),
			MaxAge:   viper.GetDuration("voices.max_age"),
		},
		Log: LogConfig{
			Level: viper.GetString("log.level"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	if c.TTS.Engine == "" {
		c.TTS.Engine = "remote"
	}
	if c.TTS.Rate == 0 {
		c.TTS.Rate = voice.DefaultRate
	}
	c.TTS.Rate = voice.ClampRate(c.TTS.Rate)

	return nil
}

// cacheDirectory returns the appropriate cache directory
func cacheDirectory() string {
	if cacheDir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cacheDir, "quicknote")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".quicknote", "cache")
	}

	return "cache"
}
