package main

import (
	"fmt"

	"milk-admin/src/client"
	"milk-admin/src/interfaces"
	"milk-admin/src/logger"
	"milk-admin/src/models"
	"milk-admin/src/network"
	"milk-admin/src/repository"
	"milk-admin/src/storage"
)

// -----------------------------------------------------------------------------

// setupDatabase initializes the ledger mirror based on config. It returns nil
// when storage is disabled.
func setupDatabase(config *models.MConfig, appLogger *logger.Logger) (interfaces.IDatabase, error) {
	var db interfaces.IDatabase
	var err error

	switch config.Storage.DBType {
	case "none":
		appLogger.Info("Local ledger disabled")
		return nil, nil
	case "postgres":
		pgLogger := logger.NewLogger(config, "PostgresDB")
		db, err = storage.NewPostgresDB(config, pgLogger)
	default:
		// Default to SQLite
		sqliteLogger := logger.NewLogger(config, "SQLiteDB")
		db, err = storage.NewAsyncSQLiteDB(config, sqliteLogger)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}
	if err := db.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return db, nil
}

// -----------------------------------------------------------------------------

// setupRepositories builds network manager -> client -> repositories.
func setupRepositories(config *models.MConfig) (*repository.Repositories, error) {
	networkLogger := logger.NewLogger(config, "NetworkManager")
	nm, err := network.NewAsyncNetworkManager(config, networkLogger)
	if err != nil {
		return nil, err
	}
	mc, err := client.NewMilkClient(config, nm, logger.NewLogger(config, "MilkClient"))
	if err != nil {
		return nil, err
	}
	return repository.NewRepositories(config, mc), nil
}
