// Package config loads the process-wide, immutable configuration, one
// loader consolidating every environment variable both binaries need,
// with an optional .env bootstrap for local development.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at process init and passed through call sites — no
// hidden singletons.
type Config struct {
	DNSTimeout  time.Duration
	DNSLifetime time.Duration
	SMTPTimeout time.Duration
	ProbePause  time.Duration
	MaxWorkers  int
	MXCacheTTL  time.Duration
	HeloDomain  string
	MailFrom    string

	// Required by the HTTP adapters, not by the verification core itself.
	APISecretKey string
	ProxyURL     string
}

// Load reads environment variables (optionally preceded by a .env file in
// the working directory) and applies documented defaults. Missing or
// malformed numeric values fall back to the default rather than failing
// process startup.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env present but unreadable: %v", err)
	}

	return Config{
		DNSTimeout:   durationSeconds("DNS_TIMEOUT", 3),
		DNSLifetime:  durationSeconds("DNS_LIFETIME", 3),
		SMTPTimeout:  durationSeconds("SMTP_TIMEOUT", 6),
		ProbePause:   durationSecondsFloat("PROBE_PAUSE", 0.08),
		MaxWorkers:   intEnv("MAX_WORKERS", 20),
		MXCacheTTL:   durationSeconds("MX_CACHE_TTL", 3600),
		HeloDomain:   stringEnv("HELO_DOMAIN", "example.com"),
		MailFrom:     stringEnv("MAIL_FROM", "probe@example.com"),
		APISecretKey: os.Getenv("API_SECRET_KEY"),
		ProxyURL:     os.Getenv("SMTP_PROXY_URL"),
	}
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		log.Printf("[config] %s=%q invalid, using default %d", key, v, def)
		return def
	}
	return parsed
}

func durationSeconds(key string, defSeconds int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(defSeconds) * time.Second
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil || parsed <= 0 {
		log.Printf("[config] %s=%q invalid, using default %ds", key, v, defSeconds)
		return time.Duration(defSeconds) * time.Second
	}
	return time.Duration(parsed * float64(time.Second))
}

func durationSecondsFloat(key string, defSeconds float64) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(defSeconds * float64(time.Second))
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil || parsed < 0 {
		log.Printf("[config] %s=%q invalid, using default %.2fs", key, v, defSeconds)
		return time.Duration(defSeconds * float64(time.Second))
	}
	return time.Duration(parsed * float64(time.Second))
}
