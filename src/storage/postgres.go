package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"milk-admin/src/interfaces"
	"milk-admin/src/logger"
	"milk-admin/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	*ledger
	Config *models.MConfig
	Schema string
}

// -----------------------------------------------------------------------------

func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	if log == nil {
		log = logger.NewLogger(cfg, "PostgresDB")
	}

	// Schema is named after the application, falling back to the executable.
	name := cfg.Name
	if name == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable name: %w", err)
		}
		name = filepath.Base(exe)
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	name = strings.ReplaceAll(name, `"`, "")

	return &PostgresDB{
		Config: cfg,
		Schema: name,
		ledger: &ledger{
			Logger:    log,
			Retention: cfg.Storage.RetentionDays,
			table:     func(t string) string { return fmt.Sprintf(`"%s"."%s"`, name, t) },
			numbered:  true,
			now:       time.Now,
		},
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// Create Schema
	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", d.Schema, err)
	}

	if err := d.createTables(); err != nil {
		return err
	}

	d.Logger.Info("PostgresDB initialized successfully (Schema: %s)", d.Schema)
	return nil
}

var _ interfaces.IDatabase = (*PostgresDB)(nil)
