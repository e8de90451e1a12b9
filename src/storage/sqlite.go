package storage

import (
	"database/sql"
	"strings"
	"time"

	"milk-admin/src/interfaces"
	"milk-admin/src/logger"
	"milk-admin/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type AsyncSQLiteDB struct {
	*ledger
	Config *models.MConfig
}

// -----------------------------------------------------------------------------

func NewAsyncSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*AsyncSQLiteDB, error) {
	if log == nil {
		log = logger.NewLogger(cfg, "SQLiteDB")
	}
	return &AsyncSQLiteDB{
		Config: cfg,
		ledger: &ledger{
			Logger:    log,
			Retention: cfg.Storage.RetentionDays,
			table:     func(name string) string { return name },
			now:       time.Now,
		},
	}, nil
}

// SetClock replaces the time source used by retention cleanup (tests).
func (d *AsyncSQLiteDB) SetClock(now func() time.Time) {
	d.now = now
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	// Every connection to :memory: is a separate database.
	if dsn == "" || strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	if err := d.createTables(); err != nil {
		return err
	}

	d.Logger.Info("SQLite ledger ready at %s", dsn)
	return nil
}

var _ interfaces.IDatabase = (*AsyncSQLiteDB)(nil)
