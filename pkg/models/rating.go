package models

import "fmt"

// Rating represents the user's assessment of how well a subtopic was recalled
type Rating int

const (
	// Again means the material could not be recalled
	Again Rating = iota + 1
	// Hard means the material was recalled with significant effort
	Hard
	// Good means the material was recalled with some effort
	Good
	// Easy means the material was recalled without effort
	Easy
)

var ratingNames = [...]string{Again: "Again", Hard: "Hard", Good: "Good", Easy: "Easy"}

// IsValid reports whether r is one of the four defined ratings
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// String returns the rating name, or "Rating(n)" for invalid values
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// ParseRating converts a rating name back to a Rating
func ParseRating(s string) (Rating, error) {
	for r := Again; r <= Easy; r++ {
		if ratingNames[r] == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rating: %q", s)
}
