package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	LogFile           string `mapstructure:"LOG_FILE"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	Version           string `mapstructure:"APP_VERSION"`

	// Remote services.
	APITimeout              int    `mapstructure:"API_TIMEOUT"` // seconds
	ScheduleCacheTTLMinutes int    `mapstructure:"SCHEDULE_CACHE_TTL_MINUTES"`
	Timezone                string `mapstructure:"TIMEZONE"`
	InformationURL          string `mapstructure:"API_INFORMACION_URL"`
	BookingURL              string `mapstructure:"API_AGENDAR_REUNION_URL"`
	CatalogLimit            int    `mapstructure:"CATALOG_LIMIT"`

	// Gemini.
	GeminiAPIKey   string  `mapstructure:"GEMINI_API_KEY"`
	GeminiModel    string  `mapstructure:"GEMINI_MODEL"`
	LLMTemperature float32 `mapstructure:"LLM_TEMPERATURE"`
	LLMMaxTokens   int32   `mapstructure:"LLM_MAX_TOKENS"`
	LLMTimeout     int     `mapstructure:"LLM_TIMEOUT"` // seconds

	// Redis configuration. An empty address keeps conversation memory in process.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisMemoryDB    int    `mapstructure:"REDIS_MEMORY_DB"`
	MemoryMaxTurns   int    `mapstructure:"MEMORY_MAX_TURNS"`
	MemoryTTLMinutes int    `mapstructure:"MEMORY_TTL_MINUTES"`

	// Tracing.
	OTelEnabled      bool    `mapstructure:"OTEL_ENABLED"`
	OTelEndpoint     string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSamplingRatio float64 `mapstructure:"OTEL_SAMPLING_RATIO"`
}

var AppConfig Config

// SetDefaults registers every key with its default so AutomaticEnv can override it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8003")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("APP_VERSION", "1.0.0")

	v.SetDefault("API_TIMEOUT", 10)
	v.SetDefault("SCHEDULE_CACHE_TTL_MINUTES", 5)
	v.SetDefault("TIMEZONE", "America/Lima")
	v.SetDefault("API_INFORMACION_URL", "https://api.maravia.pe/servicio/ws_informacion_ia.php")
	v.SetDefault("API_AGENDAR_REUNION_URL", "https://api.maravia.pe/servicio/n8n/ws_agendar_reunion.php")
	v.SetDefault("CATALOG_LIMIT", 10)

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("LLM_TEMPERATURE", 0.4)
	v.SetDefault("LLM_MAX_TOKENS", 2048)
	v.SetDefault("LLM_TIMEOUT", 90)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_MEMORY_DB", 0)
	v.SetDefault("MEMORY_MAX_TURNS", 4)
	v.SetDefault("MEMORY_TTL_MINUTES", 60)

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_SAMPLING_RATIO", 1.0)
}

// Load reads defaults, the optional config file and the environment into a Config.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig() {
	v := viper.GetViper()
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	cfg, err := Load(v)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Validate rejects values the service cannot run with.
func (c Config) Validate() error {
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %d", c.APITimeout)
	}
	if c.ScheduleCacheTTLMinutes <= 0 {
		return fmt.Errorf("SCHEDULE_CACHE_TTL_MINUTES must be positive, got %d", c.ScheduleCacheTTLMinutes)
	}
	if c.InformationURL == "" || c.BookingURL == "" {
		return fmt.Errorf("API_INFORMACION_URL and API_AGENDAR_REUNION_URL are required")
	}
	if c.MemoryMaxTurns < 0 {
		return fmt.Errorf("MEMORY_MAX_TURNS cannot be negative")
	}
	return nil
}

func (c Config) APITimeoutDuration() time.Duration {
	return time.Duration(c.APITimeout) * time.Second
}

func (c Config) LLMTimeoutDuration() time.Duration {
	return time.Duration(c.LLMTimeout) * time.Second
}

func (c Config) ScheduleCacheTTL() time.Duration {
	return time.Duration(c.ScheduleCacheTTLMinutes) * time.Minute
}

func (c Config) MemoryTTL() time.Duration {
	return time.Duration(c.MemoryTTLMinutes) * time.Minute
}

// Location resolves TIMEZONE. On failure it returns UTC together with the error.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC, fmt.Errorf("unknown TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
