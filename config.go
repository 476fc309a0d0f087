package main

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            int
	TLSCert         string
	TLSKey          string
	MaxMessageSize  int64
	RateLimitPerIP  float64
	EventRate       float64
	JanitorInterval time.Duration
	RoomMaxAge      time.Duration
	LogLevel        string
	LogFormat       string
}

func LoadConfig() *Config {
	return &Config{
		Port:            envInt("PORT", 3000),
		TLSCert:         envStr("RELAY_TLS_CERT", ""),
		TLSKey:          envStr("RELAY_TLS_KEY", ""),
		MaxMessageSize:  int64(envInt("RELAY_MAX_MESSAGE_SIZE", 65536)),
		RateLimitPerIP:  float64(envInt("RELAY_RATE_LIMIT_PER_IP", 20)),
		EventRate:       float64(envInt("RELAY_EVENT_RATE", 30)),
		JanitorInterval: time.Duration(envInt("JANITOR_INTERVAL", 1800)) * time.Second,
		RoomMaxAge:      time.Duration(envInt("ROOM_MAX_AGE", 1800)) * time.Second,
		LogLevel:        envStr("LOG_LEVEL", "info"),
		LogFormat:       envStr("LOG_FORMAT", "text"),
	}
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
