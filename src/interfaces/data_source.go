package interfaces

import (
	"context"

	"milk-admin/src/models"
)

// -----------------------------------------------------------------------------
// IDataSource supplies the server reads the sync loop reconciles against.
// -----------------------------------------------------------------------------

type IDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchSnapshot reads the stock and earnings summaries.
	FetchSnapshot(ctx context.Context) (models.MSnapshot, error)

	// -----------------------------------------------------------------------------

	// FetchWindows reads the per-day entry lists for the week and month ending on today.
	FetchWindows(ctx context.Context, today models.Date) (models.MWindowData, error)
}
