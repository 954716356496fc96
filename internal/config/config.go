package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Weather struct {
		BaseURL         string `yaml:"base_url"`
		APIKey          string `yaml:"api_key"`
		City            string `yaml:"city"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"weather"`

	Health struct {
		SamplesPath string `yaml:"samples_path"`
	} `yaml:"health"`

	Sync struct {
		IntervalMinutes int `yaml:"interval_minutes"`
	} `yaml:"sync"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/aquatrack.db"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SyncInterval returns how often the daemon resyncs the schedule.
func (c *Config) SyncInterval() time.Duration {
	if c.Sync.IntervalMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Sync.IntervalMinutes) * time.Minute
}

// WeatherCacheTTL returns the weather cache lifetime, zero if disabled.
func (c *Config) WeatherCacheTTL() time.Duration {
	if c.Weather.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Weather.CacheTTLSeconds) * time.Second
}
