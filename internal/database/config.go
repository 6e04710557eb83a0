package database

import (
	"fmt"
	"net/url"

	"spendchat/internal/config"
)

// Config holds database configuration
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	// MigrationsDir is the file:// source used by golang-migrate.
	MigrationsDir string
}

// NewConfig builds the database configuration from the application config.
func NewConfig(cfg *config.Config) *Config {
	return &Config{
		Host:          cfg.DBHost,
		Port:          cfg.DBPort,
		User:          cfg.DBUser,
		Password:      cfg.DBPassword,
		DBName:        cfg.DBName,
		SSLMode:       cfg.DBSSLMode,
		MigrationsDir: "migrations",
	}
}

// DSN returns the PostgreSQL connection string used by GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrateURL returns the postgres:// URL used by golang-migrate.
func (c *Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
