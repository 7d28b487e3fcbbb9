package x_db

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rskv-p/searchlab/pkg/x_log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//---------------------
// Open
//---------------------

// Open connects to the configured database with gorm logging routed to x_log.
func Open(cfg Config) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case DbPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		dialector = sqlite.Open(cfg.DSN)
	}

	zl := x_log.New("db")
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogAdapter(&zl, gormLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", cfg.Type, err)
	}

	zl.Debug().Str("driver", string(cfg.Type)).Msg("database opened")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Logger returns a gorm logger writing to l, for callers building their own gorm.Config.
func Logger(l *zerolog.Logger, level string) logger.Interface {
	return newLogAdapter(l, gormLevel(level))
}
