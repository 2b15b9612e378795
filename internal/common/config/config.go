// Package config loads server configuration from defaults, an optional YAML
// file and POS_-prefixed environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where a config file is searched, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/restaurant-pos/config.yaml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "POS_CONFIG"

type Server struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

type Database struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"password"`
	Name string `koanf:"database"`
}

type Rabbit struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Pass     string `koanf:"password"`
	Exchange string `koanf:"exchange"`
}

type Security struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`
}

type Order struct {
	// DrinkAutoReadyDelay is how long after order creation still-pending drink
	// items are flipped to ready automatically.
	DrinkAutoReadyDelay time.Duration `koanf:"drink_auto_ready_delay"`
}

type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type Config struct {
	Server   Server   `koanf:"server"`
	Database Database `koanf:"database"`
	Rabbit   Rabbit   `koanf:"rabbitmq"`
	Security Security `koanf:"security"`
	Order    Order    `koanf:"order"`
	Log      Log      `koanf:"log"`
}

func defaults() *Config {
	return &Config{
		Server:   Server{Host: "0.0.0.0", Port: 3000, Timeout: 30 * time.Second},
		Database: Database{Host: "localhost", Port: 5432, User: "pos", Name: "pos"},
		Rabbit:   Rabbit{Enabled: false, Host: "localhost", Port: 5672, User: "guest", Pass: "guest", Exchange: "pos.events"},
		Security: Security{SessionTimeout: 24 * time.Hour},
		Order:    Order{DrinkAutoReadyDelay: 300 * time.Second},
		Log:      Log{Level: "info", Format: "json"},
	}
}

// Load reads configuration from the given path. An empty path falls back to
// POS_CONFIG and then the default search paths; a missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path == "" {
		for _, p := range DefaultConfigPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// POS_DATABASE_HOST overrides database.host and so on.
	err := k.Load(env.Provider("POS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "POS_")), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters")
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return fmt.Errorf("database.host and database.database are required")
	}
	if c.Order.DrinkAutoReadyDelay < 0 {
		return fmt.Errorf("order.drink_auto_ready_delay must not be negative")
	}
	return nil
}
