package config

type PushConfig struct {
	FCM  *FCMConfig  `yaml:"fcm"`
	APNS *APNSConfig `yaml:"apns"`
}

type FCMConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	Enabled         bool   `yaml:"enabled"`
}

type APNSConfig struct {
	KeyFile    string `yaml:"key_file"`
	KeyID      string `yaml:"key_id"`
	TeamID     string `yaml:"team_id"`
	Topic      string `yaml:"topic"`
	Production bool   `yaml:"production"`
	Enabled    bool   `yaml:"enabled"`
}

func loadPushConfig() *PushConfig {
	return &PushConfig{
		FCM: &FCMConfig{
			CredentialsFile: getEnv("FCM_CREDENTIALS_FILE", ""),
			Enabled:         getEnvAsBool("FCM_ENABLED", false),
		},
		APNS: &APNSConfig{
			KeyFile:    getEnv("APNS_KEY_FILE", ""),
			KeyID:      getEnv("APNS_KEY_ID", ""),
			TeamID:     getEnv("APNS_TEAM_ID", ""),
			Topic:      getEnv("APNS_TOPIC", ""),
			Production: getEnvAsBool("APNS_PRODUCTION", false),
			Enabled:    getEnvAsBool("APNS_ENABLED", false),
		},
	}
}
