// Package config loads server configuration from the environment.
//
// A .env file in the working directory is loaded first (if present), then
// values are read from the process environment with sensible development
// defaults. Production deployments supply real values via the environment;
// nothing secret is hard-coded.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port   int
	DBPath string

	// JWTSecret signs session tokens. Required — there is no safe default.
	JWTSecret string

	// Imgur API credentials. ClientID alone allows anonymous uploads up to
	// 10 MB; adding ClientSecret + RefreshToken enables account uploads with
	// the larger ceiling.
	ImgurClientID     string
	ImgurClientSecret string
	ImgurRefreshToken string

	// CORSOrigins is the comma-separated allow-list for browser clients.
	// "*" (the default) is fine for development.
	CORSOrigins []string
}

// Load reads configuration from .env and the environment.
// Returns an error if JWT_SECRET is missing — the server cannot issue or
// verify session tokens without it.
func Load() (Config, error) {
	// Missing .env is not an error; the environment may be fully populated
	// already (containers, CI).
	_ = godotenv.Load()

	cfg := Config{
		Port:              8080,
		DBPath:            "data/myboulders.db",
		JWTSecret:         os.Getenv("JWT_SECRET"),
		ImgurClientID:     os.Getenv("IMGUR_CLIENT_ID"),
		ImgurClientSecret: os.Getenv("IMGUR_CLIENT_SECRET"),
		ImgurRefreshToken: os.Getenv("IMGUR_REFRESH_TOKEN"),
		CORSOrigins:       []string{"*"},
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, errors.New("config: PORT must be an integer")
		}
		cfg.Port = port
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = cfg.CORSOrigins[:0]
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("config: JWT_SECRET is required")
	}

	return cfg, nil
}
