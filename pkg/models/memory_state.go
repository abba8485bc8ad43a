package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// ItemState represents the learning stage of a subtopic
type ItemState int

const (
	// StateNew means the subtopic has never been reviewed
	StateNew ItemState = iota
	// StateLearning means the subtopic is in its initial learning phase
	StateLearning
	// StateReview means the subtopic entered the long-term review cycle
	StateReview
	// StateRelearning means the subtopic was forgotten and is being relearned
	StateRelearning
)

var stateNames = [...]string{
	StateNew:        "new",
	StateLearning:   "learning",
	StateReview:     "review",
	StateRelearning: "relearning",
}

// IsValid reports whether s is one of the four defined states
func (s ItemState) IsValid() bool {
	return s >= StateNew && s <= StateRelearning
}

// String returns the state name, or "ItemState(n)" for invalid values
func (s ItemState) String() string {
	if s.IsValid() {
		return stateNames[s]
	}
	return fmt.Sprintf("ItemState(%d)", int(s))
}

// Value implements driver.Valuer so the state is stored as its name
func (s ItemState) Value() (driver.Value, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid item state: %d", int(s))
	}
	return stateNames[s], nil
}

// Scan implements sql.Scanner for reading the state back from the database
func (s *ItemState) Scan(src interface{}) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	default:
		return fmt.Errorf("cannot scan item state from %T", src)
	}
	for st := StateNew; st <= StateRelearning; st++ {
		if stateNames[st] == name {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown item state: %q", name)
}

// MemoryState tracks a user's memory of a specific subtopic.
// Difficulty, stability, state, due and the review counters are owned by the
// spaced repetition model; the surrounding identifiers and timestamps belong
// to the store.
type MemoryState struct {
	ID          int64      `json:"id" db:"id"`
	UserID      int64      `json:"user_id" db:"user_id"`
	SubtopicID  int64      `json:"subtopic_id" db:"subtopic_id"`
	Difficulty  float64    `json:"difficulty" db:"difficulty"`     // intrinsic hardness, always within [1, 10] once reviewed
	Stability   float64    `json:"stability" db:"stability"`       // memory half-life proxy in days, never negative
	State       ItemState  `json:"state" db:"state"`
	Due         time.Time  `json:"due" db:"due"`
	LastReview  *time.Time `json:"last_review" db:"last_review"`   // nil before the first review
	ReviewCount int        `json:"review_count" db:"review_count"` // zero iff State is StateNew
	LastRating  int        `json:"last_rating" db:"last_rating"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// NewMemoryState creates the state for a subtopic that just entered study.
// Due is set to now so the first review can happen immediately.
func NewMemoryState(userID, subtopicID int64, now time.Time) MemoryState {
	return MemoryState{
		UserID:     userID,
		SubtopicID: subtopicID,
		State:      StateNew,
		Due:        now,
	}
}
