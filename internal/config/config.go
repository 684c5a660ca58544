package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Order    OrderConfig
	Kafka    KafkaConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type AuthConfig struct {
	ServiceURL string
	Timeout    time.Duration
}

type CatalogConfig struct {
	ServiceURL     string
	Timeout        time.Duration
	MaxConcurrency int
}

type OrderConfig struct {
	PersistenceTimeout time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Load reads configuration from the environment. When CONFIG_FILE points to a
// YAML file its keys (same names as the env vars) fill in anything the
// environment does not set.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "10s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "30s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "edushare")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "edushare")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("AUTH_SERVICE_URL", "http://localhost:3001")
	v.SetDefault("AUTH_TIMEOUT", "5s")
	v.SetDefault("CATALOG_SERVICE_URL", "http://localhost:3002")
	v.SetDefault("CATALOG_TIMEOUT", "5s")
	v.SetDefault("CATALOG_MAX_CONCURRENCY", 4)
	v.SetDefault("PERSISTENCE_TIMEOUT", "5s")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "edushare.shares")

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	durationKeys := []string{
		"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
		"DB_CONN_MAX_LIFETIME", "AUTH_TIMEOUT", "CATALOG_TIMEOUT", "PERSISTENCE_TIMEOUT",
	}
	durations := map[string]time.Duration{}
	for _, key := range durationKeys {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		durations[key] = d
	}

	driver := strings.ToLower(v.GetString("DB_DRIVER"))
	if driver != DriverMySQL && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	maxConcurrency := v.GetInt("CATALOG_MAX_CONCURRENCY")
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ReadTimeout:     durations["SERVER_READ_TIMEOUT"],
			WriteTimeout:    durations["SERVER_WRITE_TIMEOUT"],
			IdleTimeout:     durations["SERVER_IDLE_TIMEOUT"],
			ShutdownTimeout: durations["SERVER_SHUTDOWN_TIMEOUT"],
		},
		Database: DatabaseConfig{
			Driver:          driver,
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durations["DB_CONN_MAX_LIFETIME"],
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Auth: AuthConfig{
			ServiceURL: strings.TrimRight(v.GetString("AUTH_SERVICE_URL"), "/"),
			Timeout:    durations["AUTH_TIMEOUT"],
		},
		Catalog: CatalogConfig{
			ServiceURL:     strings.TrimRight(v.GetString("CATALOG_SERVICE_URL"), "/"),
			Timeout:        durations["CATALOG_TIMEOUT"],
			MaxConcurrency: maxConcurrency,
		},
		Order: OrderConfig{
			PersistenceTimeout: durations["PERSISTENCE_TIMEOUT"],
		},
		Kafka: KafkaConfig{
			Brokers: splitCSV(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
