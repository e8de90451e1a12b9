package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"milk-admin/src/analysis"
	"milk-admin/src/config"
	datasource "milk-admin/src/data_source"
	"milk-admin/src/data_source/backend"
	"milk-admin/src/grpc_control"
	"milk-admin/src/inventory"
	"milk-admin/src/logger"
	"milk-admin/src/server"
	"milk-admin/src/services"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file (+ .env overrides)
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(config.MConfig, config.Name)

	// 1. Storage
	db, err := setupDatabase(config.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("%v", err)
	}

	// 2. Backend access
	repos, err := setupRepositories(config.MConfig)
	if err != nil {
		appLogger.Critical("Failed to set up backend client: %v", err)
	}

	// 3. State and view-models
	inv := inventory.NewInventoryManager(logger.NewLogger(config.MConfig, "InventoryManager"))
	analyzer := analysis.NewAnalysisFacade(config.MConfig, logger.NewLogger(config.MConfig, "AnalysisFacade"))

	source := backend.NewBackendSource(config.MConfig, repos, logger.NewLogger(config.MConfig, "BackendSource"))
	syncManager := datasource.NewSyncManager(config.MConfig, source, inv, analyzer, db, logger.NewLogger(config.MConfig, "SyncManager"))

	svc := services.NewServices(services.Deps{
		Config:    config.MConfig,
		Repos:     repos,
		Inventory: inv,
		Analysis:  analyzer,
		Ledger:    db,
	})
	svc.Dashboard.Status = syncManager.Status

	control := grpc_control.NewControlService(config.MConfig, syncManager, logger.NewLogger(config.MConfig, "ControlService"))

	var trigger server.ISyncTrigger
	if config.Sync.Enabled {
		trigger = syncManager
	}
	srv := server.NewFastAPIServer(config.MConfig, svc, inv, trigger, logger.NewLogger(config.MConfig, "FastAPIServer"))

	// 4. Run
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	startServers(srv, control, appLogger)
	forwarder, publisher := startEvents(ctx, wg, config, inv, appLogger)

	if config.Sync.Enabled {
		if err := syncManager.Start(ctx, wg); err != nil {
			appLogger.Critical("Failed to start sync: %v", err)
		}
	} else {
		appLogger.Warning("Sync disabled: inventory stays at zero until a manual refresh")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	// 5. Shutdown
	appLogger.Info("Shutting down...")
	syncManager.Stop()
	if forwarder != nil {
		forwarder.Stop()
	}
	cancel()
	wg.Wait()

	if err := srv.Stop(); err != nil {
		appLogger.Warning("Server shutdown: %v", err)
	}
	control.Stop()
	inv.Close()

	if publisher != nil {
		publisher.Close()
	}
	if db != nil {
		if err := db.Close(); err != nil {
			appLogger.Warning("Database close: %v", err)
		}
	}
	appLogger.Info("Bye")
}
