package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	LogLevel  string
	LogFormat string

	TrackingTickInterval   time.Duration
	TrackingPersistTimeout time.Duration
	TrackingSendBuffer     int

	ReconcileSchedule    string
	ReconcileMaxAttempts int
}

// LoadConfig reads the environment, after loading envFile when it exists.
// Unset variables fall back to development defaults.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	tick, err := getDuration("TRACKING_TICK_INTERVAL", 3*time.Second)
	if err != nil {
		return Config{}, err
	}
	persistTimeout, err := getDuration("TRACKING_PERSIST_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	sendBuffer, err := getInt("TRACKING_SEND_BUFFER", 32)
	if err != nil {
		return Config{}, err
	}
	maxAttempts, err := getInt("RECONCILE_MAX_ATTEMPTS", 5)
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "5432"),
		DBUser:                 getEnv("DB_USER", "postgres"),
		DBPassword:             getEnv("DB_PASSWORD", "postgres"),
		DBName:                 getEnv("DB_NAME", "delivery_tracker"),
		DBSslMode:              getEnv("DB_SSLMODE", "disable"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "json"),
		TrackingTickInterval:   tick,
		TrackingPersistTimeout: persistTimeout,
		TrackingSendBuffer:     sendBuffer,
		ReconcileSchedule:      getEnv("RECONCILE_SCHEDULE", "*/30 * * * * *"),
		ReconcileMaxAttempts:   maxAttempts,
	}, nil
}

// DSN is the PostgreSQL connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
