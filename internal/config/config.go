package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort         string
	GRPCPort         string
	LogLevel         string
	AllowRemoveStock bool
	SeedData         bool

	RedisAddr    string
	MySQLDSN     string
	KafkaBrokers []string
	KafkaTopic   string

	JournalWorkers   int
	JournalQueueSize int
	ShutdownTimeout  time.Duration
}

// Load reads the environment, after loading .env when one is present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return fromEnv()
}

func fromEnv() (Config, error) {
	cfg := Config{
		HTTPPort:   getEnvOrDefault("PORT", "8080"),
		GRPCPort:   getEnvOrDefault("GRPC_PORT", "50051"),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "info"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		MySQLDSN:   os.Getenv("MYSQL_DSN"),
		KafkaTopic: getEnvOrDefault("KAFKA_TOPIC", "inventory-events"),
	}

	var err error
	if cfg.AllowRemoveStock, err = getBoolOrDefault("ALLOW_REMOVE_STOCK", false); err != nil {
		return Config{}, err
	}
	if cfg.SeedData, err = getBoolOrDefault("SEED_DATA", true); err != nil {
		return Config{}, err
	}
	if cfg.JournalWorkers, err = getPositiveIntOrDefault("JOURNAL_WORKERS", 4); err != nil {
		return Config{}, err
	}
	if cfg.JournalQueueSize, err = getPositiveIntOrDefault("JOURNAL_QUEUE_SIZE", 1024); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getDurationOrDefault("SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}

	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	for name, port := range map[string]string{"PORT": cfg.HTTPPort, "GRPC_PORT": cfg.GRPCPort} {
		if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
			return Config{}, fmt.Errorf("%s: invalid port %q", name, port)
		}
	}
	return cfg, nil
}

func (c Config) HTTPAddr() string { return ":" + c.HTTPPort }
func (c Config) GRPCAddr() string { return ":" + c.GRPCPort }

func getEnvOrDefault(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) (bool, error) {
	v := getEnvOrDefault(key, "")
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getPositiveIntOrDefault(key string, defaultValue int) (int, error) {
	v := getEnvOrDefault(key, "")
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	v := getEnvOrDefault(key, "")
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
