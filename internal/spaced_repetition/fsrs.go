package spaced_repetition

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/example/studyplan/pkg/models"
)

// Sentinel errors, checked with errors.Is
var (
	ErrInvalidRating = errors.New("spaced_repetition: invalid rating")
	ErrInvalidState  = errors.New("spaced_repetition: invalid memory state")
)

// decay is the fixed exponent of the forgetting curve
const decay = -0.5

// factor scales elapsed time so that retrievability is exactly 0.9 when the
// elapsed days equal the stability: factor = 0.9^(1/decay) - 1 = 19/81
var factor = math.Pow(0.9, 1.0/decay) - 1

const minStability = 0.001

// Model computes memory state updates for a fixed profile. A Model carries
// no mutable state: Review is deterministic given its inputs and the model's
// fuzz seed, and a Model is safe for concurrent use across items.
type Model struct {
	profile models.Profile
	seed    int64
}

// New creates a model for the given profile with a time-derived fuzz seed
func New(profile models.Profile) *Model {
	return NewWithSeed(profile, time.Now().UnixNano())
}

// NewWithSeed creates a model with an explicit fuzz seed so review results
// are reproducible
func NewWithSeed(profile models.Profile, seed int64) *Model {
	return &Model{profile: profile, seed: seed}
}

// Profile returns the profile the model was built with
func (m *Model) Profile() models.Profile {
	return m.profile
}

// Review processes a review of the subtopic at the given time and returns
// the updated memory state. The input state is not mutated.
//
// Graduation rule: transitions are evaluated on the pre-review state. A new
// item always moves to learning; a learning or relearning item graduates to
// review on its first Good or Easy rating; a review item demotes to
// relearning on Again.
func (m *Model) Review(state models.MemoryState, rating models.Rating, now time.Time) (models.MemoryState, error) {
	if !rating.IsValid() {
		return models.MemoryState{}, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}
	if err := validateState(state); err != nil {
		return models.MemoryState{}, err
	}

	next := state

	if state.ReviewCount == 0 {
		next.Stability = m.initStability(rating)
		next.Difficulty = m.initDifficulty(rating)
	} else {
		// Zero stability is valid input but would divide to NaN in the
		// update formulas; floor it like the outputs are floored.
		stability := math.Max(state.Stability, minStability)
		elapsed := elapsedDays(*state.LastReview, now)
		r := m.retrievability(elapsed, stability)
		if rating == models.Again {
			next.Stability = m.forgetStability(state.Difficulty, stability, r)
		} else {
			next.Stability = m.recallStability(state.Difficulty, stability, r, rating)
		}
		next.Difficulty = m.nextDifficulty(state.Difficulty, rating)
	}

	next.State = transition(state.State, rating)

	interval := m.nextInterval(next.Stability)
	if m.profile.FuzzEnabled {
		interval = fuzzInterval(interval, m.profile.MaxIntervalDays, m.fuzzRand(state, now))
	}

	reviewedAt := now
	next.Due = now.AddDate(0, 0, interval)
	next.LastReview = &reviewedAt
	next.ReviewCount = state.ReviewCount + 1
	next.LastRating = int(rating)
	return next, nil
}

// Retrievability returns the modeled probability that the subtopic is still
// remembered at the given time. Zero before the first review.
func (m *Model) Retrievability(state models.MemoryState, now time.Time) float64 {
	if state.LastReview == nil || state.Stability <= 0 {
		return 0
	}
	return m.retrievability(elapsedDays(*state.LastReview, now), state.Stability)
}

// IsDue reports whether the subtopic needs reviewing at the given time.
// A state due exactly now counts as due.
func IsDue(state models.MemoryState, now time.Time) bool {
	return !now.Before(state.Due)
}

// DueStates filters states down to those due at the given time, preserving
// input order. The result is derived fresh from the inputs on every call.
func DueStates(states []models.MemoryState, now time.Time) []models.MemoryState {
	var due []models.MemoryState
	for _, s := range states {
		if IsDue(s, now) {
			due = append(due, s)
		}
	}
	return due
}

// SortByUrgency orders states for review: never-reviewed items first, then
// earliest due date, then hardest (highest difficulty)
func SortByUrgency(states []models.MemoryState) {
	sort.SliceStable(states, func(i, j int) bool {
		a, b := states[i], states[j]
		if (a.ReviewCount == 0) != (b.ReviewCount == 0) {
			return a.ReviewCount == 0
		}
		if !a.Due.Equal(b.Due) {
			return a.Due.Before(b.Due)
		}
		return a.Difficulty > b.Difficulty
	})
}

func validateState(state models.MemoryState) error {
	if state.Difficulty < 0 || state.Stability < 0 {
		return fmt.Errorf("%w: difficulty %.3f, stability %.3f", ErrInvalidState, state.Difficulty, state.Stability)
	}
	if !state.State.IsValid() {
		return fmt.Errorf("%w: state %d", ErrInvalidState, int(state.State))
	}
	if (state.ReviewCount == 0) != (state.State == models.StateNew) {
		return fmt.Errorf("%w: state %s with review count %d", ErrInvalidState, state.State, state.ReviewCount)
	}
	if state.ReviewCount > 0 && state.LastReview == nil {
		return fmt.Errorf("%w: reviewed item without last review time", ErrInvalidState)
	}
	return nil
}

// transition applies the state machine on the pre-review state
func transition(state models.ItemState, rating models.Rating) models.ItemState {
	switch state {
	case models.StateNew:
		return models.StateLearning
	case models.StateLearning, models.StateRelearning:
		if rating == models.Good || rating == models.Easy {
			return models.StateReview
		}
		return state
	default: // StateReview
		if rating == models.Again {
			return models.StateRelearning
		}
		return models.StateReview
	}
}

func elapsedDays(last, now time.Time) float64 {
	d := now.Sub(last).Hours() / 24.0
	if d < 0 {
		return 0
	}
	return d
}

// retrievability computes R(t, S) = (1 + factor*t/S)^decay
func (m *Model) retrievability(elapsed, stability float64) float64 {
	return math.Pow(1+factor*elapsed/stability, decay)
}

// initStability returns S0(G) = w[G-1]
func (m *Model) initStability(rating models.Rating) float64 {
	return clampStability(m.profile.Weights[rating-1])
}

// initDifficulty returns D0(G) = w4 - (G-3)*w5, clamped to [1, 10].
// Again starts hard, Easy starts easy, Good starts at the midpoint w4.
func (m *Model) initDifficulty(rating models.Rating) float64 {
	w := m.profile.Weights
	return clampDifficulty(w[4] - (float64(rating)-3)*w[5])
}

// nextDifficulty moves difficulty by -w6*(G-3), then mean-reverts toward the
// midpoint w4 by weight w7 so repeated Good ratings drift back to baseline
func (m *Model) nextDifficulty(difficulty float64, rating models.Rating) float64 {
	w := m.profile.Weights
	dPrime := difficulty - w[6]*(float64(rating)-3)
	return clampDifficulty(w[7]*w[4] + (1-w[7])*dPrime)
}

// recallStability grows stability after a successful recall:
// S' = S * (1 + e^w8 * (11-D) * S^-w9 * (e^((1-R)*w10) - 1) * hardPenalty * easyBonus)
// Lower retrievability at review time yields a larger gain (spacing effect).
func (m *Model) recallStability(d, s, r float64, rating models.Rating) float64 {
	w := m.profile.Weights
	hardPenalty := 1.0
	if rating == models.Hard {
		hardPenalty = w[15]
	}
	easyBonus := 1.0
	if rating == models.Easy {
		easyBonus = w[16]
	}
	grown := s * (1 + math.Exp(w[8])*
		(11-d)*
		math.Pow(s, -w[9])*
		(math.Exp((1-r)*w[10])-1)*
		hardPenalty*easyBonus)
	return clampStability(grown)
}

// forgetStability shrinks stability after Again:
// S' = min(S, w11 * D^-w12 * ((S+1)^w13 - 1) * e^((1-R)*w14))
// The min keeps a lapse from ever increasing stability.
func (m *Model) forgetStability(d, s, r float64) float64 {
	w := m.profile.Weights
	dropped := w[11] *
		math.Pow(d, -w[12]) *
		(math.Pow(s+1, w[13]) - 1) *
		math.Exp((1-r)*w[14])
	return clampStability(math.Min(dropped, s))
}

// nextInterval solves R(t, S) = desiredRetention for t and clamps the result
// to [1, MaxIntervalDays]
func (m *Model) nextInterval(stability float64) int {
	ivl := stability / factor * (math.Pow(m.profile.DesiredRetention, 1.0/decay) - 1)
	days := int(math.Round(ivl))
	if days < 1 {
		days = 1
	}
	if days > m.profile.MaxIntervalDays {
		days = m.profile.MaxIntervalDays
	}
	return days
}

func clampStability(s float64) float64 {
	return math.Max(s, minStability)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, 1), 10)
}
