package models

// -----------------------------------------------------------------------------
// Stream names pushed to UI subscribers
// -----------------------------------------------------------------------------

const (
	StreamInventory = "inventory"
	StreamStock     = "stock_summary"
	StreamEarnings  = "earnings_summary"
)

// AllStreams lists every state stream in a stable order.
var AllStreams = []string{StreamInventory, StreamStock, StreamEarnings}

// -----------------------------------------------------------------------------
// State update message
// -----------------------------------------------------------------------------

type MStateUpdate struct {
	Type      string      `json:"type"` // "INITIAL" or "UPDATE"
	Stream    string      `json:"stream"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// -----------------------------------------------------------------------------
// SubscribeCommand for client messages
// -----------------------------------------------------------------------------

type MSubscribeCommand struct {
	Command string   `json:"command"`
	Streams []string `json:"streams"`
}

// -----------------------------------------------------------------------------
// Dashboard snapshot
// -----------------------------------------------------------------------------

type MDashboard struct {
	Inventory   MMilkInventory   `json:"inventory"`
	Stock       MStockSummary    `json:"stockSummary"`
	Earnings    MEarningsSummary `json:"earningsSummary"`
	CowSummary  *MCowSummary     `json:"cowSummary,omitempty"`
	Initialized bool             `json:"initialized"`
	LastSync    int64            `json:"lastSync"`
	SyncError   string           `json:"syncError,omitempty"`
}

// -----------------------------------------------------------------------------
// Sync data
// -----------------------------------------------------------------------------

// MSnapshot is one authoritative read of the server aggregates.
type MSnapshot struct {
	Stock    MStockSummary
	Earnings MEarningsSummary
}

// MWindowData holds the entries of the rolling week and month ending today.
type MWindowData struct {
	WeeklyOut      []MMilkOutEntry
	MonthlyOut     []MMilkOutEntry
	WeeklySpoilage []MMilkSpoiltEntry
	MilkIn         []MMilkInEntry // weekly window
}

// MSyncStatus reports the state of the background refresh loop.
type MSyncStatus struct {
	Running        bool   `json:"running"`
	LastSync       int64  `json:"lastSync"`
	LastError      string `json:"lastError,omitempty"`
	SyncCount      int    `json:"syncCount"`
	FailureCount   int    `json:"failureCount"`
	ServerAdopted  bool   `json:"serverStockAdopted"`
	DailyResetDays int    `json:"dailyResets"`
	SeededAt       int64  `json:"seededFromLedgerAt,omitempty"` // snapshot time used while offline
}
