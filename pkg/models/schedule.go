package models

import "time"

// StudyPlacement is a committed calendar slot: a subtopic scheduled for a
// number of hours on a specific date. The sum of hours per date is the
// scheduled load the availability ledger checks against.
type StudyPlacement struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	SubtopicID int64     `json:"subtopic_id" db:"subtopic_id"`
	Date       string    `json:"date" db:"date"` // YYYY-MM-DD
	Hours      float64   `json:"hours" db:"hours"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
