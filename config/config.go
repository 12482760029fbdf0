package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL      string
	JWTSecretKey     string
	ServerPort       int
	LogLevel         slog.Level
	CORSOrigins      []string
	RateLimit        int
	RateWindow       time.Duration
	DBConnectTimeout time.Duration
	Storage          StorageConfig
}

// StorageConfig описывает бакет для отчётов о целостности (R2 / S3).
// Пустой Bucket отключает выгрузку.
type StorageConfig struct {
	Bucket          string
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccountID != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}

var keys = []string{
	"DATABASE_URL",
	"JWT_SECRET_KEY",
	"SERVER_PORT",
	"LOG_LEVEL",
	"CORS_ALLOWED_ORIGINS",
	"RATE_LIMIT_REQUESTS",
	"RATE_LIMIT_WINDOW",
	"DB_CONNECT_TIMEOUT",
	"REPORT_BUCKET",
	"R2_ACCOUNT_ID",
	"R2_ACCESS_KEY_ID",
	"R2_SECRET_ACCESS_KEY",
	"R2_PUBLIC_BASE_URL",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_REQUESTS", 120)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	return v
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
// requireJWT выключается для команд CLI, которым HTTP не нужен.
func Load(requireJWT bool) (*Config, error) {
	_ = godotenv.Load()
	return fromViper(newViper(), requireJWT)
}

func fromViper(v *viper.Viper, requireJWT bool) (*Config, error) {
	dbURL := v.GetString("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := v.GetString("JWT_SECRET_KEY")
	if requireJWT && jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port := v.GetInt("SERVER_PORT")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	window := v.GetDuration("RATE_LIMIT_WINDOW")
	limit := v.GetInt("RATE_LIMIT_REQUESTS")
	if window <= 0 || limit <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}

	timeout := v.GetDuration("DB_CONNECT_TIMEOUT")
	if timeout <= 0 {
		return nil, fmt.Errorf("DB_CONNECT_TIMEOUT must be positive")
	}

	return &Config{
		DatabaseURL:      dbURL,
		JWTSecretKey:     jwtKey,
		ServerPort:       port,
		LogLevel:         level,
		CORSOrigins:      splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimit:        limit,
		RateWindow:       window,
		DBConnectTimeout: timeout,
		Storage: StorageConfig{
			Bucket:          v.GetString("REPORT_BUCKET"),
			AccountID:       v.GetString("R2_ACCOUNT_ID"),
			AccessKeyID:     v.GetString("R2_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("R2_SECRET_ACCESS_KEY"),
			PublicBaseURL:   v.GetString("R2_PUBLIC_BASE_URL"),
		},
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
