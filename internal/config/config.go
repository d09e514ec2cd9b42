package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	Server struct {
		Port         int           `koanf:"port"`
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
	} `koanf:"server"`

	Database struct {
		Host         string        `koanf:"host"`
		Port         int           `koanf:"port"`
		User         string        `koanf:"user"`
		Password     string        `koanf:"password"`
		Name         string        `koanf:"name"`
		SSLMode      string        `koanf:"sslmode"`
		MaxOpenConns int           `koanf:"max_open_conns"`
		MaxIdleConns int           `koanf:"max_idle_conns"`
		MaxLifetime  time.Duration `koanf:"max_lifetime"`
	} `koanf:"database"`

	Redis struct {
		Addr     string        `koanf:"addr"`
		Password string        `koanf:"password"`
		DB       int           `koanf:"db"`
		TTL      time.Duration `koanf:"ttl"`
	} `koanf:"redis"`

	Kafka struct {
		Brokers     []string `koanf:"brokers"`
		OrdersTopic string   `koanf:"orders_topic"`
	} `koanf:"kafka"`

	Gateway struct {
		BaseURL   string        `koanf:"base_url"`
		KeyID     string        `koanf:"key_id"`
		KeySecret string        `koanf:"key_secret"`
		Timeout   time.Duration `koanf:"timeout"`
	} `koanf:"gateway"`

	Security struct {
		JWTSecret string `koanf:"jwt_secret"`
		Issuer    string `koanf:"issuer"`
		Audience  string `koanf:"audience"`
	} `koanf:"security"`

	Notifications struct {
		Timeout     time.Duration `koanf:"timeout"`
		FailureRate float64       `koanf:"failure_rate"`
		MaxLatency  time.Duration `koanf:"max_latency"`
	} `koanf:"notifications"`

	Features struct {
		EnableOrderCaching bool `koanf:"enable_order_caching"`
		EnableOrderEvents  bool `koanf:"enable_order_events"`
	} `koanf:"features"`
}

// DSN returns the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.Name, c.Database.SSLMode)
}

// Load reads config/base.yaml, an optional per-environment overlay, then
// ORDERS_-prefixed environment variables (nested keys with __, e.g.
// ORDERS_DATABASE__PASSWORD).
func Load(pathDir, envName string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load base config: %w", err)
	}

	// Optional: missing overlay is fine for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	if err := k.Load(env.Provider("ORDERS_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "ORDERS_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port required")
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return fmt.Errorf("database.host and database.name required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	if c.Gateway.KeySecret == "" {
		return fmt.Errorf("gateway.key_secret required")
	}
	return nil
}
