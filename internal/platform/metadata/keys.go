package metadata

// --- SQLite Keys ---
// These keys are used for the 'key' column in the 'metadata' SQLite table.
const (
	// LastLinkRebuildKey stores the timestamp of the last time the Redis link
	// registry was rebuilt from the ledger after a Redis restart.
	LastLinkRebuildKey = "last_link_rebuild"

	// LastSweepKey stores the timestamp of the last staging-bucket sweep that
	// ran to completion during shutdown.
	LastSweepKey = "last_staging_sweep"
)
