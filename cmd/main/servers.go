package main

import (
	"context"
	"sync"

	"milk-admin/src/config"
	"milk-admin/src/events"
	"milk-admin/src/grpc_control"
	"milk-admin/src/interfaces"
	"milk-admin/src/inventory"
	"milk-admin/src/logger"
)

// -----------------------------------------------------------------------------

// startServers starts the local API and the gRPC health server.
func startServers(srv interfaces.IDataExchanger, control *grpc_control.ControlService, appLogger *logger.Logger) {

	// 1. FastAPIServer
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()

	// 2. gRPC Control Server
	go func() {
		if err := control.Start(); err != nil {
			appLogger.Error("gRPC server failed: %v", err)
		}
	}()
}

// -----------------------------------------------------------------------------

// startEvents connects to the broker and forwards state changes. A broker
// that cannot be reached disables events without stopping the app.
func startEvents(
	ctx context.Context,
	wg *sync.WaitGroup,
	config *config.Config,
	inv *inventory.InventoryManager,
	appLogger *logger.Logger,
) (*events.Forwarder, interfaces.IEventPublisher) {
	if !config.Events.Enabled {
		return nil, nil
	}
	pub, err := events.NewRabbitPublisher(config.MConfig, logger.NewLogger(config.MConfig, "RabbitPublisher"))
	if err != nil {
		appLogger.Error("Events disabled: %v", err)
		return nil, nil
	}
	fwd := events.NewForwarder(pub, inv, logger.NewLogger(config.MConfig, "EventForwarder"))
	fwd.Start(ctx, wg)
	return fwd, pub
}
