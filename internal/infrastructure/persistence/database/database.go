// Package database provides the core functionality for creating and managing
// database connections in a clean, isolated manner.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	"github.com/ettle-app/ettle-go/pkg/config"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// DB wraps the standard SQL connection together with its driver choice.
type DB struct {
	*sql.DB
	UseTurso bool
}

// Config selects the submissions store backend. A populated Turso pair wins;
// otherwise a local sqlite file is used so development and tests never need
// network access.
type Config struct {
	TursoDatabase string
	TursoToken    string
	SQLitePath    string
}

// ConfigFromEnv assembles the backend selection from package configuration.
func ConfigFromEnv() *Config {
	return &Config{
		TursoDatabase: config.TursoDatabase,
		TursoToken:    config.TursoToken,
		SQLitePath:    config.SubmissionsPath,
	}
}

// Connect opens the submissions store, preferring Turso when configured and
// falling back to local sqlite. Pool limits come from package configuration.
func Connect(cfg *Config, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()

	var conn *sql.DB
	var err error
	var useTurso bool

	if cfg.TursoDatabase != "" && cfg.TursoToken != "" {
		connStr := cfg.TursoDatabase + "?authToken=" + cfg.TursoToken
		conn, err = sql.Open("libsql", connStr)
		if err == nil {
			err = conn.Ping()
		}
		if err != nil {
			logger.Database().Error("Turso connection failed", "error", err.Error(), "databaseURL", cfg.TursoDatabase)
			return nil, fmt.Errorf("turso connection failed: %w", err)
		}
		useTurso = true
	} else {
		dbDir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		conn, err = sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite ping failed: %w", err)
		}
	}

	conn.SetMaxOpenConns(config.DBMaxOpenConns)
	conn.SetMaxIdleConns(config.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)

	logger.Database().Info("Submissions store connected",
		"driver", driverName(useTurso), "duration", time.Since(start))

	return &DB{DB: conn, UseTurso: useTurso}, nil
}

func driverName(useTurso bool) string {
	if useTurso {
		return "libsql"
	}
	return "sqlite3"
}

// GetSlowQueryThreshold returns the configured slow query threshold.
func GetSlowQueryThreshold() time.Duration {
	return config.SlowQueryThreshold
}
