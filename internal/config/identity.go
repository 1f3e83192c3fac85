package config

import (
	"time"
)

type IdentityConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

func loadIdentityConfig() *IdentityConfig {
	return &IdentityConfig{
		BaseURL: getEnv("IDENTITY_PROVIDER_URL", "https://api.identitymatch.example.com"),
		APIKey:  getEnv("IDENTITY_PROVIDER_API_KEY", ""),
		Timeout: getEnvAsDuration("IDENTITY_PROVIDER_TIMEOUT", 15*time.Second),
	}
}
