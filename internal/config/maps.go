package config

type MapsConfig struct {
	GoogleMapsAPIKey string `yaml:"google_maps_api_key"`
	Enabled          bool   `yaml:"enabled"`
}

func loadMapsConfig() *MapsConfig {
	return &MapsConfig{
		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		Enabled:          getEnvAsBool("MAPS_ENABLED", false),
	}
}
