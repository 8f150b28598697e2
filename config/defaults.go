package config

import "time"

// DefaultAppConfig returns an AppConfig struct with sensible default values
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			ListenAddr:    ":8080",
			ReadTimeout:   30 * time.Second,
			WriteTimeout:  30 * time.Second,
			FileOpTimeout: 60 * time.Second,
			WriteRPS:      100,
			WriteBurst:    20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			ListenAddr: ":9090",
		},
		Storage: StorageConfig{
			BucketName:      "",
			CredentialsFile: "",
			CredentialsJSON: "",
		},
	}
}
