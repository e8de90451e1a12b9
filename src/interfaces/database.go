package interfaces

import (
	"context"

	"milk-admin/src/models"
)

// -----------------------------------------------------------------------------
// IDatabase defines the contract for the local ledger mirror.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// Save* upsert entries by id. Entries without an id are skipped.
	SaveMilkInEntries(ctx context.Context, entries []models.MMilkInEntry) error
	SaveMilkOutEntries(ctx context.Context, entries []models.MMilkOutEntry) error
	SaveMilkSpoiltEntries(ctx context.Context, entries []models.MMilkSpoiltEntry) error

	// -----------------------------------------------------------------------------

	// SaveSummarySnapshot stores one row per sync with both summaries.
	SaveSummarySnapshot(ctx context.Context, snap models.MSnapshot, takenAt int64) error

	// -----------------------------------------------------------------------------

	// LoadMilkInEntries returns the mirrored milk-in entries of one cow, newest first.
	LoadMilkInEntries(ctx context.Context, cowID int64) ([]models.MMilkInEntry, error)

	// LatestSnapshot returns the newest stored summaries and their unix time.
	// It returns sql.ErrNoRows when none was stored.
	LatestSnapshot(ctx context.Context) (models.MSnapshot, int64, error)

	// -----------------------------------------------------------------------------

	// CleanupOldData removes data older than the retention policy.
	CleanupOldData() error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
