package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPass     string
	DBName     string
	ServerPort string
	RedisURL   string
	Env        string

	DedupTTL          time.Duration
	InheritanceWindow time.Duration

	EnrichmentConcurrency int
	EnrichmentTimeout     time.Duration
	PreviewUserAgent      string
	PreviewRateInterval   time.Duration
	PreviewRateBurst      int
	PreviewMaxBodyBytes   int64

	ClassifierURL           string
	ClassifierAPIKey        string
	ClassifierModel         string
	ClassifierMinConfidence float64
	ClassifierTimeout       time.Duration

	MinioURL       string
	MinioPublicURL string
	MinioUser      string
	MinioPassword  string
	MinioBucket    string
	MaxMediaSize   int64
}

func LoadConfig() Config {
	maxMediaSize := getEnvAsInt64("MAX_MEDIA_SIZE", 10*1024*1024) // 10MB default

	return Config{
		DBHost:     getEnv("DB_HOST", "postgres"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPass:     getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "db_tagboard"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		RedisURL:   getEnv("REDIS_URL", "redis:6379"),
		Env:        getEnv("ENV", "dev"),

		DedupTTL:          getEnvAsDuration("DEDUP_TTL", 24*time.Hour),
		InheritanceWindow: getEnvAsDuration("INHERITANCE_WINDOW", 5*time.Minute),

		EnrichmentConcurrency: getEnvAsInt("ENRICHMENT_CONCURRENCY", 3),
		EnrichmentTimeout:     getEnvAsDuration("ENRICHMENT_TIMEOUT", 10*time.Second),
		PreviewUserAgent:      getEnv("PREVIEW_USER_AGENT", "tagboard-link-preview/1.0"),
		PreviewRateInterval:   getEnvAsDuration("PREVIEW_RATE_INTERVAL", time.Second),
		PreviewRateBurst:      getEnvAsInt("PREVIEW_RATE_BURST", 3),
		PreviewMaxBodyBytes:   getEnvAsInt64("PREVIEW_MAX_BODY_BYTES", 2*1024*1024),

		ClassifierURL:           getEnv("CLASSIFIER_URL", "https://api.openai.com/v1"),
		ClassifierAPIKey:        getEnv("CLASSIFIER_API_KEY", ""),
		ClassifierModel:         getEnv("CLASSIFIER_MODEL", "gpt-4o-mini"),
		ClassifierMinConfidence: getEnvAsFloat("CLASSIFIER_MIN_CONFIDENCE", 0.6),
		ClassifierTimeout:       getEnvAsDuration("CLASSIFIER_TIMEOUT", 15*time.Second),

		MinioURL:       getEnv("MINIO_URL", "localhost:9000"),
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		MinioUser:      getEnv("MINIO_USER", "minioadmin"),
		MinioPassword:  getEnv("MINIO_PASSWORD", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "tagboard-media"),
		MaxMediaSize:   maxMediaSize,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return fallback
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort,
	)
}
