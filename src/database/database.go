package database

import (
	"fmt"
	"time"

	"docvault/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

type DatabaseConfigJson struct {
	Driver           string `json:"driver"`
	ConnectionString string `json:"connection_string"`
	MaxOpenConns     int    `json:"max_open_conns"`
	Migrate          bool   `json:"migrate"`
}

type DatabaseConfig struct {
	Driver           string
	ConnectionString string
	MaxOpenConns     int
	Migrate          bool
}

func (dcj DatabaseConfigJson) ConvertToDomain() DatabaseConfig {
	driver := dcj.Driver
	if driver == "" {
		driver = DriverPostgres
	}
	return DatabaseConfig{
		Driver:           driver,
		ConnectionString: dcj.ConnectionString,
		MaxOpenConns:     dcj.MaxOpenConns,
		Migrate:          dcj.Migrate,
	}
}

func dialector(cfg DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return postgres.Open(cfg.ConnectionString), nil
	case DriverSqlite:
		return sqlite.Open(cfg.ConnectionString), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Open connects to the configured database. Timestamps are written in UTC and
// driver errors are translated to gorm sentinels such as gorm.ErrDuplicatedKey.
func Open(cfg DatabaseConfig) (*gorm.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Default().Error(err, "Failed to close database connection")
	}
}
