package x_db

import (
	"fmt"
	"strings"

	"gorm.io/gorm/logger"
)

//---------------------
// Database Config
//---------------------

// DbType selects the gorm dialector.
type DbType string

const (
	DbSqlite   DbType = "sqlite"
	DbPostgres DbType = "postgres"
)

// Config describes a database connection.
type Config struct {
	Type     DbType `json:"type" mapstructure:"type"`
	DSN      string `json:"dsn" mapstructure:"dsn"`
	LogLevel string `json:"log_level" mapstructure:"log_level"` // silent, error, warn, info
}

// DefaultConfig is a shared in-memory sqlite database.
func DefaultConfig() Config {
	return Config{
		Type:     DbSqlite,
		DSN:      "file::memory:?cache=shared",
		LogLevel: "warn",
	}
}

// Validate checks the dialect and fills empty fields.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.Type == "" {
		c.Type = def.Type
	}
	c.Type = DbType(strings.ToLower(string(c.Type)))
	if c.Type != DbSqlite && c.Type != DbPostgres {
		return fmt.Errorf("db: unsupported type %q", c.Type)
	}
	if c.DSN == "" {
		if c.Type == DbPostgres {
			return fmt.Errorf("db: postgres needs a dsn")
		}
		c.DSN = def.DSN
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	return nil
}

// gormLevel maps a level name to gorm's log level.
func gormLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}
