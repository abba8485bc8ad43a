package models

import "time"

// DistributionItem is a study item waiting for a calendar slot. Input order
// is priority order: callers pre-sort by urgency before distributing.
type DistributionItem struct {
	ID            int64   `json:"id"`
	DurationHours float64 `json:"duration_hours"`
}

// Assignment records the date an item was placed on
type Assignment struct {
	ItemID int64     `json:"item_id"`
	Date   time.Time `json:"date"`
	Hours  float64   `json:"hours"`
}

// DistributionFailure records why an item could not be placed
type DistributionFailure struct {
	ItemID int64  `json:"item_id"`
	Reason string `json:"reason"`
}

// DistributionResult enumerates exactly one assignment or one failure per
// input item
type DistributionResult struct {
	Assignments []Assignment          `json:"assignments"`
	Failures    []DistributionFailure `json:"failures"`
}

// AssignedDate returns the date an item was placed on, if it was placed
func (r *DistributionResult) AssignedDate(itemID int64) (time.Time, bool) {
	for _, a := range r.Assignments {
		if a.ItemID == itemID {
			return a.Date, true
		}
	}
	return time.Time{}, false
}
