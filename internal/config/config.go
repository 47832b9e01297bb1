// Package config loads the runtime settings from the environment,
// with a .env file as optional override source.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// DataPort is where the host serves the data channel.
	DataPort int
	// ConnectTimeout bounds a guest's whole join attempt.
	ConnectTimeout time.Duration
	// SettleDelay is the pause between a guest's channel opening and
	// the host pushing the full state.
	SettleDelay time.Duration
	// MaxImportPages caps document import, bounding memory and
	// message volume.
	MaxImportPages int
	// PageSpacing is the vertical gap between imported pages, in
	// document units.
	PageSpacing float64
	// StunServer is handed to the media transport.
	StunServer string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DataPort:       getEnvInt("SALINHA_PORT", 8844),
		ConnectTimeout: getEnvDuration("SALINHA_CONNECT_TIMEOUT", 15*time.Second),
		SettleDelay:    getEnvDuration("SALINHA_SETTLE_DELAY", 300*time.Millisecond),
		MaxImportPages: getEnvInt("SALINHA_MAX_IMPORT_PAGES", 20),
		PageSpacing:    20,
		StunServer:     getEnv("SALINHA_STUN_SERVER", "stun:stun.l.google.com:19302"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
