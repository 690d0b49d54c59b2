package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"guesthouse-backend/models"
)

var DB *gorm.DB

func mysqlConfig(user, pass, host, port, dbName string, params url.Values) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, port)
	cfg.DBName = dbName
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	for k, v := range params {
		if len(v) > 0 && k != "parseTime" && k != "loc" {
			cfg.Params[k] = v[0]
		}
	}
	return cfg
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	pass, _ := u.User.Password()
	port := u.Port()
	if port == "" {
		port = "3306"
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}
	return mysqlConfig(u.User.Username(), pass, u.Hostname(), port, dbName, u.Query()).FormatDSN(), nil
}

// DSN resolves the connection string for the configured driver.
func (c *Config) DSN() (string, error) {
	switch c.DBDriver {
	case DriverMySQL:
		raw := c.DatabaseURL
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		if raw != "" {
			return raw, nil
		}
		return mysqlConfig(c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName, nil).FormatDSN(), nil
	case DriverPostgres:
		if c.DatabaseURL != "" {
			return c.DatabaseURL, nil
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName), nil
	case DriverSQLite:
		return c.SQLitePath, nil
	}
	return "", fmt.Errorf("unsupported driver %q", c.DBDriver)
}

func (c *Config) dialector() (gorm.Dialector, error) {
	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}
	switch c.DBDriver {
	case DriverMySQL:
		return gormmysql.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return sqlite.Open(dsn), nil
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Open connects without migrating.
func Open(c *Config) (*gorm.DB, error) {
	dialector, err := c.dialector()
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormLogLevel(c.DBLogLevel),
			Colorful:      true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("cannot get raw sql.DB: %w", err)
	}
	if c.DBDriver == DriverSQLite {
		// one writer; transactions must not wait on a second connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// ConnectDatabase opens the database, migrates when enabled and stores it in DB.
func ConnectDatabase(c *Config) error {
	db, err := Open(c)
	if err != nil {
		return err
	}
	if c.AutoMigrate {
		if err := Migrate(db); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}
	if c.SeedDemoData {
		if err := SeedDatabase(db); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	DB = db
	return nil
}
