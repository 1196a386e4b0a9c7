package domain

import "context"

// DonationAPI is the remote donation service as seen by the sync engine.
type DonationAPI interface {
	List(ctx context.Context, userID string) ([]DonationRecord, error)
	Delete(ctx context.Context, id string) error
}

// SignalStore is the durable invalidation flag. The engine only reads and
// resets it; flipping it dirty is the responsibility of whichever component
// mutates donation data elsewhere.
type SignalStore interface {
	Dirty(ctx context.Context) (bool, error)
	Reset(ctx context.Context) error
}
