package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port string `yaml:"port" validate:"required,numeric"`

	// Upstream API keys. They are read here only and handed to the clients that need them.
	OpenWeatherAPIKey string `yaml:"openweather_api_key" validate:"required"`
	OpenCageAPIKey    string `yaml:"opencage_api_key" validate:"required_if=Geocoder opencage"`
	GoogleAPIKey      string `yaml:"google_geocoder_api_key" validate:"required_if=Geocoder google"`
	AnthropicAPIKey   string `yaml:"anthropic_api_key" validate:"required_if=Responder anthropic"`

	// Geocoder selects the location lookup backend.
	Geocoder string `yaml:"geocoder" validate:"oneof=opencage google"`
	// Responder selects the general-query backend.
	Responder      string `yaml:"responder" validate:"oneof=anthropic ollama"`
	AnthropicModel string `yaml:"anthropic_model"`
	AnthropicURL   string `yaml:"anthropic_url" validate:"omitempty,url"`
	OllamaURL      string `yaml:"ollama_url" validate:"omitempty,url"`
	OllamaModel    string `yaml:"ollama_model"`

	// Upstream base URLs; empty means the public endpoints.
	OpenWeatherCurrentURL  string `yaml:"openweather_current_url" validate:"omitempty,url"`
	OpenWeatherForecastURL string `yaml:"openweather_forecast_url" validate:"omitempty,url"`
	OpenWeatherHistoryURL  string `yaml:"openweather_history_url" validate:"omitempty,url"`
	OpenCageURL            string `yaml:"opencage_url" validate:"omitempty,url"`

	// HTTPTimeout bounds each outbound call; RequestTimeout bounds a whole chat request.
	HTTPTimeout    time.Duration `yaml:"http_timeout" validate:"gt=0"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`

	// Persistence.
	StoreDriver         string        `yaml:"store_driver" validate:"oneof=sqlite memory"`
	DatabasePath        string        `yaml:"database_path" validate:"required_if=StoreDriver sqlite"`
	MaintenanceInterval time.Duration `yaml:"maintenance_interval" validate:"gte=0"`

	GeocodeCacheTTL time.Duration `yaml:"geocode_cache_ttl" validate:"gte=0"`

	// RecordsMaxLimit caps how many records one listing returns.
	RecordsMaxLimit int `yaml:"records_max_limit" validate:"gt=0"`

	LogLevel  string `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat string `yaml:"log_format" validate:"oneof=console json"`
}

var validate = validator.New()

// Defaults returns the configuration used when nothing is set.
func Defaults() *AppConfig {
	return &AppConfig{
		Port:                "8000",
		Geocoder:            "opencage",
		Responder:           "anthropic",
		HTTPTimeout:         10 * time.Second,
		RequestTimeout:      30 * time.Second,
		StoreDriver:         "sqlite",
		DatabasePath:        "weather_chat.db",
		MaintenanceInterval: 15 * time.Minute,
		GeocodeCacheTTL:     24 * time.Hour,
		RecordsMaxLimit:     100,
		LogLevel:            "info",
		LogFormat:           "console",
	}
}

// Load reads configuration from environment with sensible defaults. When
// CHAT_CONFIG_FILE names a YAML file its values replace the defaults, and
// environment variables override both.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file found or error loading it")
	}
	cfg := Defaults()

	if path := os.Getenv("CHAT_CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and provider/key combinations.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	cfg.Port = getenvDefault("PORT", cfg.Port)

	cfg.OpenWeatherAPIKey = getenvDefault("OPENWEATHER_API_KEY", cfg.OpenWeatherAPIKey)
	cfg.OpenCageAPIKey = getenvDefault("OPENCAGE_API_KEY", cfg.OpenCageAPIKey)
	cfg.GoogleAPIKey = getenvDefault("GOOGLE_GEOCODER_API_KEY", cfg.GoogleAPIKey)
	cfg.AnthropicAPIKey = getenvDefault("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)

	cfg.Geocoder = getenvDefault("GEOCODER", cfg.Geocoder)
	cfg.Responder = getenvDefault("RESPONDER", cfg.Responder)
	cfg.AnthropicModel = getenvDefault("ANTHROPIC_MODEL", cfg.AnthropicModel)
	cfg.AnthropicURL = getenvDefault("ANTHROPIC_BASE_URL", cfg.AnthropicURL)
	cfg.OllamaURL = getenvDefault("OLLAMA_URL", cfg.OllamaURL)
	cfg.OllamaModel = getenvDefault("OLLAMA_MODEL", cfg.OllamaModel)

	cfg.OpenWeatherCurrentURL = getenvDefault("OPENWEATHER_CURRENT_URL", cfg.OpenWeatherCurrentURL)
	cfg.OpenWeatherForecastURL = getenvDefault("OPENWEATHER_FORECAST_URL", cfg.OpenWeatherForecastURL)
	cfg.OpenWeatherHistoryURL = getenvDefault("OPENWEATHER_HISTORY_URL", cfg.OpenWeatherHistoryURL)
	cfg.OpenCageURL = getenvDefault("OPENCAGE_URL", cfg.OpenCageURL)

	cfg.StoreDriver = getenvDefault("STORE_DRIVER", cfg.StoreDriver)
	cfg.DatabasePath = getenvDefault("DATABASE_PATH", cfg.DatabasePath)

	cfg.LogLevel = getenvDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenvDefault("LOG_FORMAT", cfg.LogFormat)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTP_TIMEOUT", &cfg.HTTPTimeout},
		{"REQUEST_TIMEOUT", &cfg.RequestTimeout},
		{"MAINTENANCE_INTERVAL", &cfg.MaintenanceInterval},
		{"GEOCODE_CACHE_TTL", &cfg.GeocodeCacheTTL},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	cfg.RecordsMaxLimit = getenvInt("RECORDS_MAX_LIMIT", cfg.RecordsMaxLimit)
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
