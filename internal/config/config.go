package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr       string
	DatabaseURL    string
	SQLitePath     string
	JWTSecret      string
	MediaRoot      string
	MediaURL       string
	CloudinaryURL  string
	RedisAddr      string
	RedisPass      string
	AllowedOrigins []string
	Env            string
}

// Load reads .env (if present) and then the process environment. It exits
// when JWT_SECRET is missing since no session could be issued without it.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env vars")
	}

	cfg := Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8000"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "./redshow.db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		MediaRoot:      getEnv("MEDIA_ROOT", "./media"),
		MediaURL:       getEnv("MEDIA_URL", "/media/"),
		CloudinaryURL:  getEnv("CLOUDINARY_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPass:      getEnv("REDIS_PASS", ""),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:8000")),
		Env:            getEnv("APP_ENV", "production"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	if !strings.HasSuffix(cfg.MediaURL, "/") {
		cfg.MediaURL += "/"
	}

	return cfg
}

func (c Config) Development() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
