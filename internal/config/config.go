package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Analysis AnalysisConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AnalysisConfig struct {
	MaxIterations   int           // k-means assign/update rounds
	PowerIterations int           // power-iteration steps per eigenpair
	LockTTL         time.Duration // how long a run may hold the cross-process lock
	RetentionRuns   int           // 0 keeps every run
	CacheTTL        time.Duration
	Seed            int64 // 0 seeds from the clock
	JobTopic        string
	IngestSubject   string
}

type AuthConfig struct {
	JwtSecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/analysis.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Analysis: AnalysisConfig{
			MaxIterations:   getEnvAsInt("ANALYSIS_MAX_ITERATIONS", 50),
			PowerIterations: getEnvAsInt("ANALYSIS_POWER_ITERATIONS", 200),
			LockTTL:         time.Duration(getEnvAsInt("ANALYSIS_LOCK_TTL_SECONDS", 600)) * time.Second,
			RetentionRuns:   getEnvAsInt("ANALYSIS_RETENTION_RUNS", 0),
			CacheTTL:        time.Duration(getEnvAsInt("ANALYSIS_CACHE_TTL_SECONDS", 300)) * time.Second,
			Seed:            getEnvAsInt64("ANALYSIS_SEED", 0),
			JobTopic:        getEnv("ANALYSIS_JOB_TOPIC", "RUN_CORPUS_ANALYSIS"),
			IngestSubject:   getEnv("CORPUS_INGESTED_SUBJECT", "analytics.CORPUS_INGESTED"),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil {
		return value
	}
	return fallback
}
