// Package config loads service configuration from the environment and an
// optional inventory.yaml file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tair/batch-inventory/pkg/database"
	"github.com/tair/batch-inventory/pkg/tracing"
)

// Config holds all configuration settings
type Config struct {
	ServiceName    string `mapstructure:"otel_service_name"`
	ServiceVersion string `mapstructure:"service_version"`
	Environment    string `mapstructure:"environment"`
	LogLevel       string `mapstructure:"log_level"`

	HTTPPort string `mapstructure:"http_port"`
	GRPCPort string `mapstructure:"grpc_port"`

	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_sslmode"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`

	KafkaBrokers string `mapstructure:"kafka_brokers"`

	TracingEnabled bool    `mapstructure:"tracing_enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"trace_sample_ratio"`

	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Timezone        string        `mapstructure:"timezone"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("otel_service_name", "inventory-service")
	v.SetDefault("service_version", "1.0.0")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_port", "8082")
	v.SetDefault("grpc_port", "9092")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "inventorydb")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("kafka_brokers", "")
	v.SetDefault("tracing_enabled", true)
	v.SetDefault("jaeger_endpoint", tracing.DefaultJaegerEndpoint)
	v.SetDefault("trace_sample_ratio", 1.0)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("timezone", "Local")
}

// Load reads configuration using a fresh viper instance
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith reads configuration into v. Environment variables override the
// config file, which overrides defaults.
func LoadWith(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// SetConfigName drops a file chosen with SetConfigFile, so search only
	// when the caller has not picked one.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("inventory")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/inventory")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Database returns the database connection settings
func (c *Config) Database() database.Config {
	return database.Config{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}

// Tracing returns the span export settings
func (c *Config) Tracing() tracing.Config {
	return tracing.Config{
		ServiceName: c.ServiceName,
		Version:     c.ServiceVersion,
		Environment: c.Environment,
		Endpoint:    c.JaegerEndpoint,
		SampleRatio: c.SampleRatio,
	}
}

// Brokers splits KafkaBrokers on commas. An empty result disables publishing.
func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Location resolves the time zone that defines the current calendar date
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
