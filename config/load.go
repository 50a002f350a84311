package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

func Load() App {
	_ = godotenv.Load(".env")

	cfg := App{
		Port:         cast.ToString(getOrDefault("APP_PORT", "8080")),
		DatabaseURL:  must("DATABASE_URL"),
		RedisAddr:    cast.ToString(getOrDefault("REDIS_ADDR", "localhost:6379")),
		JWTSecret:    cast.ToString(getOrDefault("JWT_SECRET", "local_dev_secret")),
		ApiNinjasKey: os.Getenv("API_NINJAS_KEY"),
		UploadDir:    cast.ToString(getOrDefault("UPLOAD_DIR", "uploads")),
		Env:          cast.ToString(getOrDefault("APP_ENV", "dev")),
	}
	return cfg
}

func getOrDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
