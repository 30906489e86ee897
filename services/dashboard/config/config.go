package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultSampleIntervalInMillis  = 1000
	defaultWindowCapacity          = 8
	defaultQueryIntervalInSeconds  = 1
	defaultSessionTimeoutInSeconds = 5
	defaultRetentionSeconds        = 86400
	defaultListenAddress           = "127.0.0.1:8080"
	defaultRecordingDBPath         = "db/readings.db"
)

// SourceConfig defines a single HTTP reading feed rule
type SourceConfig struct {
	Name      string `toml:"Name"`
	URL       string `toml:"URL"`
	ValuePath string `toml:"ValuePath"`
	UnitPath  string `toml:"UnitPath"`
	Unit      string `toml:"Unit"`
}

// RecordingConfig defines the readings recorder
type RecordingConfig struct {
	Enabled          bool   `toml:"Enabled"`
	DBPath           string `toml:"DBPath"`
	RetentionSeconds int    `toml:"RetentionSeconds"`
}

// Config maps to the config.toml file for the dashboard service
type Config struct {
	ListenAddress           string          `toml:"ListenAddress"`
	StaticDir               string          `toml:"StaticDir"`
	SampleIntervalInMillis  uint32          `toml:"SampleIntervalInMillis"`
	WindowCapacity          int             `toml:"WindowCapacity"`
	GraphTargets            []string        `toml:"GraphTargets"`
	SessionEndpoint         string          `toml:"SessionEndpoint"`
	SessionTimeoutInSeconds uint32          `toml:"SessionTimeoutInSeconds"`
	QueryIntervalInSeconds  uint32          `toml:"QueryIntervalInSeconds"`
	Sources                 []SourceConfig  `toml:"Sources"`
	Recording               RecordingConfig `toml:"Recording"`
}

// ApplyDefaults fills the unset values
func (cfg *Config) ApplyDefaults() {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = defaultListenAddress
	}
	if cfg.SampleIntervalInMillis == 0 {
		cfg.SampleIntervalInMillis = defaultSampleIntervalInMillis
	}
	if cfg.WindowCapacity <= 0 {
		cfg.WindowCapacity = defaultWindowCapacity
	}
	if cfg.QueryIntervalInSeconds == 0 {
		cfg.QueryIntervalInSeconds = defaultQueryIntervalInSeconds
	}
	if cfg.SessionTimeoutInSeconds == 0 {
		cfg.SessionTimeoutInSeconds = defaultSessionTimeoutInSeconds
	}
	if cfg.Recording.DBPath == "" {
		cfg.Recording.DBPath = defaultRecordingDBPath
	}
	if cfg.Recording.RetentionSeconds <= 0 {
		cfg.Recording.RetentionSeconds = defaultRetentionSeconds
	}
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	cfg.ApplyDefaults()
	if len(cfg.GraphTargets) == 0 {
		return nil, fmt.Errorf("config file '%s' defines no GraphTargets", filepath)
	}

	return &cfg, nil
}
