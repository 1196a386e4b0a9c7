// Package signal provides implementations of the durable invalidation flag
// the sync engine polls. The flag holds a string sentinel: exactly "true"
// means donation data changed elsewhere and the cache is stale; anything
// else reads as clean. The engine only reads and resets the flag — marking
// it dirty is the job of whichever component mutated donation data.
package signal

const (
	// FlagName is the default key the flag is stored under.
	FlagName = "donations_dirty"

	sentinelDirty = "true"
	sentinelClean = "false"
)
