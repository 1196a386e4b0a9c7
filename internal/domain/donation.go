package domain

import "time"

// DonationKind identifies what a supporter is giving away.
type DonationKind string

const (
	KindClothing DonationKind = "clothing"
	KindToys     DonationKind = "toys"
)

// DonationStatus reflects the server-side lifecycle of a donation. The engine
// never enforces transition order; it mirrors whatever the server reports.
type DonationStatus string

const (
	StatusPending   DonationStatus = "pending"
	StatusScheduled DonationStatus = "scheduled"
	StatusCompleted DonationStatus = "completed"
	StatusCancelled DonationStatus = "cancelled"
)

// DonationItem is one line entry inside a donation: a label, how many, and
// any photos the donor attached.
type DonationItem struct {
	Label    string   `json:"label"`
	Quantity int      `json:"quantity"`
	Images   []string `json:"images,omitempty"`
}

// DonationRecord represents one donation submission as returned by the
// donation API.
type DonationRecord struct {
	ID         string         `json:"id"`
	Kind       DonationKind   `json:"kind"`
	Status     DonationStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	PickupDate *time.Time     `json:"pickup_date,omitempty"`
	Items      []DonationItem `json:"items"`
}
