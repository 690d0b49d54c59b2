package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"guesthouse-backend/models"
	"guesthouse-backend/pricing"
	"guesthouse-backend/utils"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration
type Config struct {
	Port    string
	GinMode string

	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPass      string
	DBName      string
	SQLitePath  string
	DBLogLevel  string
	AutoMigrate bool

	CORSOrigins     []string
	Weekend         pricing.WeekendRule
	DefaultLanguage string
	SeedDemoData    bool
}

// Load reads .env (optional) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}
	return FromEnv()
}

// FromEnv builds the config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:    utils.EnvOrDefault("PORT", "8080"),
		GinMode: utils.EnvOrDefault("GIN_MODE", "debug"),

		DBDriver:    strings.ToLower(utils.EnvOrDefault("DB_DRIVER", DriverMySQL)),
		DatabaseURL: utils.EnvOrDefault("MYSQL_URL", utils.EnvOrDefault("DATABASE_URL", "")),
		DBHost:      utils.EnvOrDefault("DB_HOST", "127.0.0.1"),
		DBUser:      utils.EnvOrDefault("DB_USER", "root"),
		DBPass:      utils.EnvOrDefault("DB_PASS", ""),
		DBName:      utils.EnvOrDefault("DB_NAME", "guesthouse"),
		SQLitePath:  utils.EnvOrDefault("SQLITE_PATH", "guesthouse.db"),
		DBLogLevel:  strings.ToLower(utils.EnvOrDefault("DB_LOG_LEVEL", "warn")),
		AutoMigrate: utils.EnvBool("DB_AUTO_MIGRATE", true),

		CORSOrigins:     utils.SplitCSV(utils.EnvOrDefault("CORS_ORIGINS", "*")),
		DefaultLanguage: strings.ToLower(utils.EnvOrDefault("DEFAULT_LANGUAGE", models.DefaultLanguage)),
		SeedDemoData:    utils.EnvBool("SEED_DEMO_DATA", false),
	}

	switch cfg.DBDriver {
	case DriverMySQL:
		cfg.DBPort = utils.EnvOrDefault("DB_PORT", "3306")
	case DriverPostgres:
		cfg.DBPort = utils.EnvOrDefault("DB_PORT", "5432")
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (mysql, postgres, sqlite)", cfg.DBDriver)
	}

	weekend, err := pricing.ParseWeekendRule(utils.EnvOrDefault("WEEKEND_DAYS", "fri,sat"))
	if err != nil {
		return nil, fmt.Errorf("WEEKEND_DAYS: %w", err)
	}
	cfg.Weekend = weekend

	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	return cfg, nil
}
