package models

import "time"

// DayCapacity is a per-day study capacity override. If ExceptionHours is set
// it replaces the user's default hours for that date; removing the exception
// reverts to the default. Zero exception hours is a valid "fully unavailable"
// marker, distinct from no override.
type DayCapacity struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	Date           string    `json:"date" db:"date"` // YYYY-MM-DD
	ExceptionHours float64   `json:"exception_hours" db:"exception_hours"`
	Reason         string    `json:"reason" db:"reason"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ConflictReport describes whether adding new load to a day would exceed its
// effective capacity. It is derived fresh per query and never stored.
type ConflictReport struct {
	Date                  string  `json:"date"`
	HasConflict           bool    `json:"has_conflict"`
	AvailableHours        float64 `json:"available_hours"`
	ScheduledHours        float64 `json:"scheduled_hours"`
	NewItemHours          float64 `json:"new_item_hours"`
	TotalAfterSchedule    float64 `json:"total_after_schedule"`
	OverloadHours         float64 `json:"overload_hours"`
	SuggestedAvailability float64 `json:"suggested_availability"` // smallest half-hour-aligned capacity absorbing the load
}
