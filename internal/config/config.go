package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	SMTP     SMTPConfig

	JWTSecret string

	// LegacyStockUpdates switches the catalog stock decrement from the
	// atomic conditional update to the legacy read-then-save sequence.
	LegacyStockUpdates bool

	CacheTTL time.Duration
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c PostgresConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr string
}

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

func (c SMTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func Load() *Config {
	cacheTTL, _ := strconv.Atoi(getEnvOrDefault("CACHE_TTL_SECONDS", "60"))

	return &Config{
		Port: getEnvOrDefault("PORT", "8080"),
		Postgres: PostgresConfig{
			Host:     getEnvOrDefault("POSTGRESQL_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRESQL_PORT", "5432"),
			User:     getEnvOrDefault("POSTGRESQL_USERNAME", "postgres"),
			Password: getEnvOrDefault("POSTGRESQL_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("POSTGRESQL_DATABASE", "storefront"),
			SSLMode:  getEnvOrDefault("POSTGRESQL_SSLMODE", "disable"),
		},
		Mongo: MongoConfig{
			URI:      getEnvOrDefault("MONGODB_URL", "mongodb://localhost:27017"),
			Database: getEnvOrDefault("MONGODB_DATABASE", "storefront"),
		},
		Redis: RedisConfig{
			Addr: getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		},
		SMTP: SMTPConfig{
			Host:     getEnvOrDefault("SMTP_HOST", "localhost"),
			Port:     getEnvOrDefault("SMTP_PORT", "587"),
			From:     getEnvOrDefault("MAIL", "no-reply@storefront.local"),
			Password: getEnvOrDefault("MAIL_PASS", ""),
		},
		JWTSecret:          getEnvOrDefault("JWT_SECRET", "defaultSecret"),
		LegacyStockUpdates: getEnvOrDefault("LEGACY_STOCK_UPDATES", "false") == "true",
		CacheTTL:           time.Duration(cacheTTL) * time.Second,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
