package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	MigrationsPath  string
	JWTSecret       string
	SessionTTL      time.Duration
	GoogleAudience  string
	AllowOrigins    []string
	LogstashTCPAddr string

	ChapaSecretKey  string
	ChapaBaseURL    string
	ChapaTimeout    time.Duration
	PublicBaseURL   string
	DefaultCurrency string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TaskQueueName string
	QueueRetries  int

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	MinIOEndpoint     string
	MinIOAccessKey    string
	MinIOSecretKey    string
	MinIOUseSSL       bool
	MinIOBucketImages string
	MinIOPublicURL    string

	DestinationImageMaxBytes int64
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	sessionTTL := 24 * time.Hour
	if d, err := time.ParseDuration(getenv("SESSION_TTL", "24h")); err == nil && d > 0 {
		sessionTTL = d
	}

	chapaTimeout := 15 * time.Second
	if d, err := time.ParseDuration(getenv("CHAPA_TIMEOUT", "15s")); err == nil && d > 0 {
		chapaTimeout = d
	}

	redisDB := 0
	if v, err := strconv.Atoi(getenv("REDIS_DB", "0")); err == nil && v >= 0 {
		redisDB = v
	}

	retries := 3
	if v, err := strconv.Atoi(getenv("TASK_QUEUE_RETRIES", "3")); err == nil && v >= 0 {
		retries = v
	}

	imageMax := int64(5 * 1024 * 1024)
	if v, err := strconv.ParseInt(getenv("DESTINATION_IMAGE_MAX_BYTES", "5242880"), 10, 64); err == nil && v > 0 {
		imageMax = v
	}

	return Config{
		Port:            getenv("PORT", "8080"),
		DatabaseURL:     must("DATABASE_URL"),
		MigrationsPath:  getenv("MIGRATIONS_PATH", "migrations"),
		JWTSecret:       must("JWT_SECRET"),
		SessionTTL:      sessionTTL,
		GoogleAudience:  getenv("GOOGLE_AUDIENCE", ""),
		AllowOrigins:    splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr: getenv("LOGSTASH_TCP_ADDR", ""),

		ChapaSecretKey:  must("CHAPA_SECRET_KEY"),
		ChapaBaseURL:    getenv("CHAPA_BASE_URL", "https://api.chapa.co"),
		ChapaTimeout:    chapaTimeout,
		PublicBaseURL:   getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		DefaultCurrency: getenv("DEFAULT_CURRENCY", "NGN"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		TaskQueueName: getenv("TASK_QUEUE_NAME", "travel:tasks"),
		QueueRetries:  retries,

		SMTPHost:     getenv("SMTP_HOST", ""),
		SMTPPort:     getenv("SMTP_PORT", ""),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM", "noreply@atlastravel.app"),

		MinIOEndpoint:     getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:    getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:    getenv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:       getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketImages: getenv("MINIO_BUCKET_IMAGES", "travel-destinations"),
		MinIOPublicURL:    getenv("MINIO_PUBLIC_URL", ""),

		DestinationImageMaxBytes: imageMax,
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
