package config

import (
	"fmt"
	"strings"
	"time"
)

// Default values for Settings.
const (
	DefaultPort             = "8080"
	DefaultPredictionAPIURL = "http://localhost:5000"
	DefaultAllowOrigins     = "http://localhost:5173"
	DefaultViewStateTTL     = 30 * time.Minute
	DefaultCleanupSchedule  = "*/5 * * * *"
	DefaultLogDir           = "logs"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	Port string

	// PredictionAPIURL is the base URL of the prediction service; "/predict" is appended.
	PredictionAPIURL string
	// PredictionTimeout bounds each outbound request. Zero means no timeout.
	PredictionTimeout time.Duration
	// PredictionRatePerMinute throttles outbound requests. Zero means unlimited.
	PredictionRatePerMinute int

	AllowOrigins string

	// RedisAddress selects the Redis view state store. Empty keeps state in memory.
	RedisAddress  string
	RedisPassword string
	RedisDB       int

	ViewStateTTL    time.Duration
	CleanupSchedule string

	LogDir     string
	LogLevel   string
	LogConsole bool
}

// LoadSettings reads Settings from the environment, applying defaults.
func LoadSettings() (Settings, error) {
	s := Settings{
		Port:                    GetEnvDefault("PORT", DefaultPort),
		PredictionAPIURL:        strings.TrimRight(GetEnvDefault("PREDICTION_API_URL", DefaultPredictionAPIURL), "/"),
		PredictionTimeout:       GetEnvDuration("PREDICTION_TIMEOUT", 0),
		PredictionRatePerMinute: GetEnvInt("PREDICTION_RATE_PER_MINUTE", 0),
		AllowOrigins:            GetEnvDefault("CORS_ALLOW_ORIGINS", DefaultAllowOrigins),
		RedisAddress:            GetEnv("REDIS_ADDRESS"),
		RedisPassword:           GetEnv("REDIS_PASSWORD"),
		RedisDB:                 GetEnvInt("REDIS_DB", 0),
		ViewStateTTL:            GetEnvDuration("VIEW_STATE_TTL", DefaultViewStateTTL),
		CleanupSchedule:         GetEnvDefault("CLEANUP_SCHEDULE", DefaultCleanupSchedule),
		LogDir:                  GetEnvDefault("LOG_DIR", DefaultLogDir),
		LogLevel:                GetEnvDefault("LOG_LEVEL", "info"),
		LogConsole:              GetEnvBool("LOG_CONSOLE", false),
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) validate() error {
	if !strings.HasPrefix(s.PredictionAPIURL, "http://") && !strings.HasPrefix(s.PredictionAPIURL, "https://") {
		return fmt.Errorf("PREDICTION_API_URL %q must be an http(s) URL", s.PredictionAPIURL)
	}
	if s.PredictionTimeout < 0 {
		return fmt.Errorf("PREDICTION_TIMEOUT must not be negative")
	}
	if s.PredictionRatePerMinute < 0 {
		return fmt.Errorf("PREDICTION_RATE_PER_MINUTE must not be negative")
	}
	if s.ViewStateTTL <= 0 {
		return fmt.Errorf("VIEW_STATE_TTL must be positive")
	}
	return nil
}
