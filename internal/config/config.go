package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/beatworks/beatotheque/internal/models"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	SERVER_PORT string

	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	JWT_SECRET string
	TOKEN_TTL  time.Duration

	S3_ENDPOINT   string
	S3_REGION     string
	S3_ACCESS_KEY string
	S3_SECRET_KEY string
	S3_BUCKET     string
	S3_PUBLIC_URL string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string
	ES_INDEX    string

	LOG_LEVEL string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		SERVER_PORT: envDefault("SERVER_PORT", "8080"),

		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_NAME:     os.Getenv("DB_NAME"),

		JWT_SECRET: os.Getenv("JWT_SECRET"),
		TOKEN_TTL:  envDurationDefault("TOKEN_TTL", 7*24*time.Hour),

		S3_ENDPOINT:   os.Getenv("S3_ENDPOINT"),
		S3_REGION:     envDefault("S3_REGION", "us-east-1"),
		S3_ACCESS_KEY: os.Getenv("S3_ACCESS_KEY"),
		S3_SECRET_KEY: os.Getenv("S3_SECRET_KEY"),
		S3_BUCKET:     os.Getenv("S3_BUCKET"),
		S3_PUBLIC_URL: os.Getenv("S3_PUBLIC_URL"),

		ES_URL:      os.Getenv("ES_URL"),
		ES_USER:     os.Getenv("ES_USER"),
		ES_PASSWORD: os.Getenv("ES_PASSWORD"),
		ES_INDEX:    envDefault("ES_INDEX", "beats"),

		LOG_LEVEL: envDefault("LOG_LEVEL", "info"),
	}

	if config.JWT_SECRET == "" {
		return nil, fmt.Errorf("missing required env JWT_SECRET")
	}

	return config, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if h, err := strconv.Atoi(v); err == nil {
		return time.Duration(h) * time.Hour
	}
	return def
}

func InitDB(configuration *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		configuration.DB_USER,
		configuration.DB_PASSWORD,
		configuration.DB_HOST,
		configuration.DB_PORT,
		configuration.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Beat{}, &models.License{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
