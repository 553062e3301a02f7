package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost string
	RedisPort string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	JWTSecret   string
	JWTTTLHours int

	ServerPort string
	GinMode    string

	// TaskEditOwnerOnly restricts shared-task update/delete "for all" to the
	// subject owner. Off by default: any member may edit shared tasks.
	TaskEditOwnerOnly bool

	// SubscribeBackfillStatuses creates status rows for a subject's existing
	// tasks when a new member joins, so late subscribers are not left
	// without per-task state.
	SubscribeBackfillStatuses bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "studytracker"),
		DBPassword: getEnv("DB_PASSWORD", "studytracker"),
		DBName:     getEnv("DB_NAME", "studytracker"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.yandex.ru"),
		SMTPPort:     getEnvInt("SMTP_PORT", 465),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		JWTSecret:   getEnv("JWT_SECRET", "default-secret-key-change-me"),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 72),

		ServerPort: getEnv("SERVER_PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),

		TaskEditOwnerOnly:         getEnvBool("TASK_EDIT_OWNER_ONLY", false),
		SubscribeBackfillStatuses: getEnvBool("SUBSCRIBE_BACKFILL_STATUSES", true),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
