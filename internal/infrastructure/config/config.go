package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App           AppConfig
	Store         StoreConfig
	Observability ObservabilityConfig
	Interceptor   InterceptorConfig
}

type AppConfig struct {
	Name    string
	Timeout time.Duration
}

type StoreConfig struct {
	Type       string // "sqlite" or "memory"
	SQLiteFile string
}

type ObservabilityConfig struct {
	LogLevel          string
	LogFormat         string // "json" or "text"
	MetricsEnabled    bool
	MetricsPort       int
	TracingEnabled    bool
	ZipkinEndpoint    string
	EventLogFile      string
	EventLogBatchSize int
}

type InterceptorConfig struct {
	TimeoutSeconds          int
	CircuitBreakerThreshold float64
	CircuitBreakerTimeout   time.Duration
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "intent-confirm",
			Timeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Type:       "sqlite",
			SQLiteFile: "data/confirmation.db",
		},
		Observability: ObservabilityConfig{
			LogLevel:          "info",
			LogFormat:         "json",
			MetricsEnabled:    true,
			MetricsPort:       9090,
			TracingEnabled:    false,
			ZipkinEndpoint:    "http://localhost:9411/api/v2/spans",
			EventLogFile:      "data/confirmation_events.db",
			EventLogBatchSize: 20,
		},
		Interceptor: InterceptorConfig{
			TimeoutSeconds:          30,
			CircuitBreakerThreshold: 0.5,
			CircuitBreakerTimeout:   10 * time.Second,
		},
	}
}

// LoadConfig loads configuration from YAML file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := viper.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	// Environment variable overrides
	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()

	if storeType := os.Getenv("APP_STORE_TYPE"); storeType != "" {
		cfg.Store.Type = storeType
	}
	if sqliteFile := os.Getenv("APP_STORE_SQLITE_FILE"); sqliteFile != "" {
		cfg.Store.SQLiteFile = sqliteFile
	}
	if logLevel := os.Getenv("APP_LOG_LEVEL"); logLevel != "" {
		cfg.Observability.LogLevel = logLevel
	}
	if tracingEnabled := os.Getenv("APP_TRACING_ENABLED"); tracingEnabled != "" {
		cfg.Observability.TracingEnabled = tracingEnabled == "true"
	}
	if zipkinEndpoint := os.Getenv("APP_ZIPKIN_ENDPOINT"); zipkinEndpoint != "" {
		cfg.Observability.ZipkinEndpoint = zipkinEndpoint
	}

	return cfg, nil
}
