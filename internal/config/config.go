package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress      string
	DatabasePath       string
	JWTSecret          string
	SessionKey         string
	GroqAPIKey         string
	GroqModel          string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	UploadURL          string
	UploadPreset       string
	GoogleClientID     string
	GoogleClientSecret string
	CORSOrigin         string
}

func Load() (*Config, error) {
	// A missing .env file is fine in production; real env vars win either way.
	_ = godotenv.Load()

	return &Config{
		ServerAddress:      envOrDefault("SERVER_ADDRESS", ":8080"),
		DatabasePath:       envOrDefault("DATABASE_PATH", "./echochat.db"),
		JWTSecret:          os.Getenv("JWT_SECRET_KEY"),
		SessionKey:         os.Getenv("SESSION_KEY"),
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		GroqModel:          envOrDefault("GROQ_MODEL", "llama3-8b-8192"),
		RedisAddr:          envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            envIntOrDefault("REDIS_DB", 0),
		UploadURL:          os.Getenv("UPLOAD_URL"),
		UploadPreset:       os.Getenv("UPLOAD_PRESET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		CORSOrigin:         envOrDefault("CORS_ORIGIN", "http://localhost:5173"),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
