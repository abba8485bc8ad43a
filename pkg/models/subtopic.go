package models

import "time"

// Subtopic is a unit of study material: a named part of a topic with an
// estimated duration used by the distribution planner
type Subtopic struct {
	ID             int64     `json:"id" db:"id"`
	Topic          string    `json:"topic" db:"topic"`
	Name           string    `json:"name" db:"name"`
	EstimatedHours float64   `json:"estimated_hours" db:"estimated_hours"`
	Position       int       `json:"position" db:"position"` // order within the topic
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
