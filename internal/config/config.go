package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      *AppConfig      `yaml:"app"`
	Database *DatabaseConfig `yaml:"database"`
	Redis    *RedisConfig    `yaml:"redis"`
	Payment  *PaymentConfig  `yaml:"payment"`
	Push     *PushConfig     `yaml:"push"`
	Maps     *MapsConfig     `yaml:"maps"`
	Identity *IdentityConfig `yaml:"identity"`
	Platform *PlatformConfig `yaml:"platform"`
	Security *SecurityConfig `yaml:"security"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
	Port        int    `yaml:"port"`
	Host        string `yaml:"host"`
	Debug       bool   `yaml:"debug"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	Timezone    string `yaml:"timezone"`
	Currency    string `yaml:"currency"`
}

// PlatformConfig carries the bootstrap defaults for the versioned platform
// settings document; the authoritative values live in the database.
type PlatformConfig struct {
	CommissionPercentage    float64       `yaml:"commission_percentage"`
	PerKMRate               float64       `yaml:"per_km_rate"`
	ConfidenceThreshold     float64       `yaml:"confidence_threshold"`
	LocationStalenessWindow time.Duration `yaml:"location_staleness_window"`
	LocationRefreshInterval time.Duration `yaml:"location_refresh_interval"`
	LocationAcquireTimeout  time.Duration `yaml:"location_acquire_timeout"`
}

type SecurityConfig struct {
	JWTSecret          string   `yaml:"jwt_secret"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

func Load() (*Config, error) {
	config := &Config{
		App:      loadAppConfig(),
		Database: loadDatabaseConfig(),
		Redis:    loadRedisConfig(),
		Payment:  loadPaymentConfig(),
		Push:     loadPushConfig(),
		Maps:     loadMapsConfig(),
		Identity: loadIdentityConfig(),
		Platform: loadPlatformConfig(),
		Security: loadSecurityConfig(),
	}

	return config, nil
}

func loadAppConfig() *AppConfig {
	return &AppConfig{
		Name:        getEnv("APP_NAME", "DriveHire"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnvAsInt("APP_PORT", 8080),
		Host:        getEnv("APP_HOST", "localhost"),
		Debug:       getEnvAsBool("APP_DEBUG", true),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		Timezone:    getEnv("APP_TIMEZONE", "Africa/Lagos"),
		Currency:    getEnv("APP_CURRENCY", "NGN"),
	}
}

func loadPlatformConfig() *PlatformConfig {
	return &PlatformConfig{
		CommissionPercentage:    getEnvAsFloat64("PLATFORM_COMMISSION_PERCENTAGE", 10.0),
		PerKMRate:               getEnvAsFloat64("PLATFORM_PER_KM_RATE", 100.0),
		ConfidenceThreshold:     getEnvAsFloat64("VERIFICATION_CONFIDENCE_THRESHOLD", 80.0),
		LocationStalenessWindow: getEnvAsDuration("LOCATION_STALENESS_WINDOW", 2*time.Minute),
		LocationRefreshInterval: getEnvAsDuration("LOCATION_REFRESH_INTERVAL", 30*time.Second),
		LocationAcquireTimeout:  getEnvAsDuration("LOCATION_ACQUIRE_TIMEOUT", 10*time.Second),
	}
}

func loadSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		JWTSecret:          getEnv("JWT_SECRET", "change-me-in-production"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, part := range strings.Split(value, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultValue
}
