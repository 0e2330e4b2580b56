// Package config loads service configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	GinMode    string
	MongoURI   string
	Database   string
	JWTSecret  string
	BackendURL string

	CloudinaryURL string

	SMTPHost     string
	SMTPPort     int
	SMTPFrom     string
	SMTPPassword string
}

func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	godotenv.Load()

	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		GinMode:       os.Getenv("GIN_MODE"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		Database:      getenv("MONGODB_DATABASE", "blogify"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		BackendURL:    getenv("BACKEND_URL", "http://localhost:8080"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPFrom:      os.Getenv("SMTP_FROM"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
	}

	port, err := strconv.Atoi(getenv("SMTP_PORT", "587"))
	if err != nil {
		return nil, errors.New("SMTP_PORT must be a number")
	}
	cfg.SMTPPort = port

	if cfg.JWTSecret == "" || cfg.MongoURI == "" {
		return nil, errors.New("JWT_SECRET and MONGODB_URI must be set")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
