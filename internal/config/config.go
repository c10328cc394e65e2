package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		// Mode is "debug" or "release".
		Mode        string   `yaml:"mode"`
		CORSOrigins []string `yaml:"corsOrigins"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
		// File enables a rotating JSON log file next to stdout.
		File string `yaml:"file"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret"`
		Issuer    string `yaml:"issuer"`
		// DevTokens maps fixed bearer tokens to principals for local runs.
		DevTokens map[string]string `yaml:"devTokens"`
	} `yaml:"auth"`
	Attempts struct {
		Policy string `yaml:"policy"`
		Grace  string `yaml:"grace"`
	} `yaml:"attempts"`
	Questions struct {
		CacheTTL string `yaml:"cacheTtl"`
	} `yaml:"questions"`
}

// Load reads YAML config from path and validates it.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the service cannot run with.
func (c Config) Validate() error {
	switch c.Attempts.Policy {
	case "", "multiple", "single":
	default:
		return fmt.Errorf("attempts.policy must be multiple or single, got %q", c.Attempts.Policy)
	}
	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	for name, raw := range map[string]string{
		"redis.ttl":          c.Redis.TTL,
		"attempts.grace":     c.Attempts.Grace,
		"questions.cacheTtl": c.Questions.CacheTTL,
	} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
