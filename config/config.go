// Package config provides configuration management for bucketfs.
// It handles loading and validating configuration from YAML/JSON files and
// environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

// AppConfig represents the complete application configuration
type AppConfig struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Storage StorageConfig `koanf:"storage"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	ListenAddr    string        `koanf:"listen_addr"`
	ReadTimeout   time.Duration `koanf:"read_timeout"`
	WriteTimeout  time.Duration `koanf:"write_timeout"`
	FileOpTimeout time.Duration `koanf:"file_op_timeout"`
	WriteRPS      float64       `koanf:"write_rps"`   // rate limit for mutating requests
	WriteBurst    int           `koanf:"write_burst"` // burst for mutating requests
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsConfig holds metrics server configuration
type MetricsConfig struct {
	ListenAddr string `koanf:"listen_addr"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	BucketName      string `koanf:"bucket_name"`
	CredentialsFile string `koanf:"credentials_file"` // path to a JSON credential blob
	CredentialsJSON string `koanf:"credentials_json"` // inline JSON credential blob
}

// LoadCredentials returns the raw JSON credential blob, preferring the inline
// value over the file path.
func (c StorageConfig) LoadCredentials() ([]byte, error) {
	if c.CredentialsJSON != "" {
		return []byte(c.CredentialsJSON), nil
	}
	if c.CredentialsFile == "" {
		return nil, fmt.Errorf("storage.credentials_file or storage.credentials_json is required")
	}

	raw, err := os.ReadFile(c.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", c.CredentialsFile, err)
	}
	return raw, nil
}
