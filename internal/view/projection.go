package view

import (
	"time"

	"donationsync/internal/domain"
)

// Badge is the display mapping for a donation status.
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var statusBadges = map[domain.DonationStatus]Badge{
	domain.StatusPending:   {Label: "Pending", Color: "#F59E0B", Icon: "clock"},
	domain.StatusScheduled: {Label: "Scheduled", Color: "#3B82F6", Icon: "calendar"},
	domain.StatusCompleted: {Label: "Completed", Color: "#10B981", Icon: "check-circle"},
	domain.StatusCancelled: {Label: "Cancelled", Color: "#EF4444", Icon: "x-circle"},
}

// StatusBadge returns the badge for a status. Unknown values fall back to the
// Pending badge rather than failing the render.
func StatusBadge(status domain.DonationStatus) Badge {
	if badge, ok := statusBadges[status]; ok {
		return badge
	}
	return statusBadges[domain.StatusPending]
}

// ItemCount is the displayed total across all line entries of a record.
func ItemCount(record domain.DonationRecord) int {
	total := 0
	for _, item := range record.Items {
		total += item.Quantity
	}
	return total
}

// Images flattens every item's image list in item order, without
// deduplication. Returns an empty slice when the record has no images.
func Images(record domain.DonationRecord) []string {
	images := make([]string, 0)
	for _, item := range record.Items {
		images = append(images, item.Images...)
	}
	return images
}

// ShortDate renders a locale-aware short date.
func ShortDate(t time.Time, locale string) string {
	return t.Format(shortDateLayout(locale))
}

// ShortDatePtr renders an optional timestamp, returning "" when absent.
func ShortDatePtr(t *time.Time, locale string) string {
	if t == nil {
		return ""
	}
	return ShortDate(*t, locale)
}
