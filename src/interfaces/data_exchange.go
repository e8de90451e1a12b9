package interfaces

import "milk-admin/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger pushes state updates to local UI listeners.
// -----------------------------------------------------------------------------

type IDataExchanger interface {
	// -----------------------------------------------------------------------------
	// Broadcast pushes one stream update to every subscribed listener.
	Broadcast(update models.MStateUpdate)

	// -----------------------------------------------------------------------------
	// Start the server
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop() error
}
