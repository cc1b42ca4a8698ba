package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort            string
	DatabaseDSN         string
	JWTSecret           string
	CORSOrigins         string
	EnableTestingBypass bool // X-Testing loopback shortcut, local development only
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:         getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=communityexpress port=5432 sslmode=disable"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		CORSOrigins:         getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		EnableTestingBypass: getEnv("ENABLE_TESTING_BYPASS", "false") == "true",
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment variable is not set! Required for production.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters! Security risk.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=communityexpress port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN is using the default value, set your own Postgres connection for production.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value, set your own domain for production.")
	}
	if cfg.EnableTestingBypass {
		log.Println("[WARN] ENABLE_TESTING_BYPASS is on. The X-Testing header will be honored for loopback requests. Never enable this in production.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
