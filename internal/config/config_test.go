package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				API: APIConfig{BaseURL: "http://localhost:5000"},
				Log: LogConfig{Level: "info"},
			},
		},
		{
			name:    "missing base url",
			config:  Config{Log: LogConfig{Level: "info"}},
			wantErr: true,
		},
		{
			name: "base url without scheme",
			config: Config{
				API: APIConfig{BaseURL: "localhost:5000"},
				Log: LogConfig{Level: "info"},
			},
			wantErr: true,
		},
		{
			name: "negative timeout",
			config: Config{
				API: APIConfig{BaseURL: "http://localhost:5000", Timeout: -time.Second},
				Log: LogConfig{Level: "info"},
			},
			wantErr: true,
		},
		{
			name: "bad log level",
			config: Config{
				API: APIConfig{BaseURL: "https://notes.example.com"},
				Log: LogConfig{Level: "loud"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := Config{
		API: APIConfig{BaseURL: "http://localhost:5000"},
		TTS: TTSConfig{Rate: 900},
		Log: LogConfig{Level: "warn"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.TTS.Engine != "remote" || cfg.TTS.Rate != 300 {
		t.Errorf("TTS = %+v", cfg.TTS)
	}
}

func TestLoad(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	path := filepath.Join(t.TempDir(), "quicknote.yaml")
	content := []byte(`
api:
  base_url: http://notes.internal:8080
  timeout: 15s
tts:
  engine: mock
  rate: 120
voices:
  cache_dir: /tmp/voices
log:
  level: debug
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "http://notes.internal:8080" || cfg.API.Timeout != 15*time.Second {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.TTS.Engine != "mock" || cfg.TTS.Rate != 120 {
		t.Errorf("TTS = %+v", cfg.TTS)
	}
	if cfg.Voices.CacheDir != "/tmp/voices" || cfg.Voices.MaxAge != 24*time.Hour {
		t.Errorf("Voices = %+v", cfg.Voices)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("QUICKNOTE_API_BASE_URL", "https://env.example.com")
	t.Chdir(t.TempDir())

	if err := Init(""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "https://env.example.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.TTS.Rate != 175 {
		t.Errorf("Rate = %d", cfg.TTS.Rate)
	}
}
