package app

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"go-attendance/internal/shared/connection"
)

type Config struct {
	Port        string
	DB          connection.DBConfig
	AutoMigrate bool
	RedisAddr   string
	KafkaBroker string
	KioskAPIKey string
	// Location is the business time zone for calendar dates and windows.
	Location     *time.Location
	Timeout      time.Duration
	SessionsFile string
}

type KioskConfig struct {
	DB           connection.DBConfig
	APIURL       string
	APIKey       string
	DeviceID     string
	PollEvery    time.Duration
	RefreshEvery time.Duration
}

func dbConfigFromEnv() connection.DBConfig {
	return connection.DBConfig{
		Host:     os.Getenv("DB_HOST"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Port:     os.Getenv("DB_PORT"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Port:         getenv("PORT", "3000"),
		DB:           dbConfigFromEnv(),
		AutoMigrate:  strings.EqualFold(os.Getenv("DB_AUTO_MIGRATE"), "true"),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:  os.Getenv("KAFKA_BROKER"),
		KioskAPIKey:  os.Getenv("KIOSK_API_KEY"),
		SessionsFile: os.Getenv("SESSIONS_FILE"),
	}

	loc, err := time.LoadLocation(getenv("ATTENDANCE_TZ", "UTC"))
	if err != nil {
		return cfg, fmt.Errorf("invalid ATTENDANCE_TZ: %w", err)
	}
	cfg.Location = loc

	cfg.Timeout, err = durationEnv("ATTENDANCE_TIMEOUT", 5*time.Second)
	if err != nil {
		return cfg, err
	}

	if os.Getenv("JWT_SECRET") == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func LoadKioskConfig() (KioskConfig, error) {
	cfg := KioskConfig{
		DB:       dbConfigFromEnv(),
		APIURL:   getenv("KIOSK_API_URL", "http://localhost:3000"),
		APIKey:   os.Getenv("KIOSK_API_KEY"),
		DeviceID: os.Getenv("KIOSK_DEVICE_ID"),
	}
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("KIOSK_API_KEY is required")
	}
	if cfg.DeviceID == "" {
		return cfg, fmt.Errorf("KIOSK_DEVICE_ID is required")
	}

	var err error
	if cfg.PollEvery, err = durationEnv("KIOSK_POLL_INTERVAL", time.Second); err != nil {
		return cfg, err
	}
	if cfg.RefreshEvery, err = durationEnv("KIOSK_REFRESH_INTERVAL", 3*time.Second); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}
