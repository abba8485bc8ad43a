package models

import "time"

// User represents a learner and their planning preferences
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ProfileName  string    `json:"profile_name" db:"profile_name"`   // one of the canonical profile names
	DailyHours   float64   `json:"daily_hours" db:"daily_hours"`     // default study capacity per day
	PlanningHour int       `json:"planning_hour" db:"planning_hour"` // hour of day for the reminder job
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
