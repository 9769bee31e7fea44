package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	CORS     CORSConfig     `yaml:"cors"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Port             int `yaml:"port"`
	QueryCacheTTLSec int `yaml:"query_cache_ttl_sec"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpiryHours int    `yaml:"expiry_hours"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins"`
}

type MQTTConfig struct {
	URL   string `yaml:"url"`
	Topic string `yaml:"topic"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AuthConfig struct {
	Required bool `yaml:"required"`
}

func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// URL returns the DSN in postgres:// form for pgx.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             8080,
			QueryCacheTTLSec: 30,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "securecheck",
			Password: "securecheck_dev_password",
			Name:     "securecheck",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		JWT: JWTConfig{
			Secret:      "securecheck-dev-secret",
			ExpiryHours: 24,
		},
		CORS: CORSConfig{AllowedOrigins: "*"},
		MQTT: MQTTConfig{
			URL:   "tcp://localhost:1883",
			Topic: "securecheck/stops/+",
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads defaults, then the YAML file at CONFIG_PATH (default
// config.yaml, optional), then environment variables.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if err := loadFile(getEnv("CONFIG_PATH", "config.yaml"), cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.Database.Name, "DB_NAME")
	overrideString(&cfg.Database.SSLMode, "DB_SSLMODE")
	overrideString(&cfg.Redis.Host, "REDIS_HOST")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideString(&cfg.JWT.Secret, "JWT_SECRET")
	overrideString(&cfg.CORS.AllowedOrigins, "CORS_ALLOWED_ORIGINS")
	overrideString(&cfg.MQTT.URL, "MQTT_URL")
	overrideString(&cfg.MQTT.Topic, "MQTT_TOPIC")
	overrideString(&cfg.Log.Level, "LOG_LEVEL")

	ints := []struct {
		dst *int
		key string
	}{
		{&cfg.Server.Port, "SERVER_PORT"},
		{&cfg.Server.QueryCacheTTLSec, "QUERY_CACHE_TTL_SEC"},
		{&cfg.Database.Port, "DB_PORT"},
		{&cfg.Redis.Port, "REDIS_PORT"},
		{&cfg.Redis.DB, "REDIS_DB"},
		{&cfg.JWT.ExpiryHours, "JWT_EXPIRY_HOURS"},
	}
	for _, o := range ints {
		v, err := getIntEnv(o.key, *o.dst)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", o.key, err)
		}
		*o.dst = v
	}

	required, err := getBoolEnv("AUTH_REQUIRED", cfg.Auth.Required)
	if err != nil {
		return fmt.Errorf("invalid AUTH_REQUIRED: %w", err)
	}
	cfg.Auth.Required = required

	return nil
}

func overrideString(dst *string, key string) {
	*dst = getEnv(key, *dst)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func getBoolEnv(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}
