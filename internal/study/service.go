// Package study glues the persistence layer to the scheduling engine: it
// loads states and capacity from the store, runs the memory model and the
// distribution planner, and persists what they produce.
package study

import (
	"context"
	"fmt"
	"time"

	"github.com/example/studyplan/internal/availability"
	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/planner"
	"github.com/example/studyplan/internal/spaced_repetition"
	"github.com/example/studyplan/pkg/models"
)

// Service orchestrates reviews and plan distribution for users
type Service struct {
	users     *database.UserRepository
	subtopics *database.SubtopicRepository
	states    *database.MemoryStateRepository
	capacity  *database.CapacityRepository
	schedule  *database.ScheduleRepository
	seed      int64
}

// NewService creates a service with a time-derived fuzz seed
func NewService() *Service {
	return NewServiceWithSeed(time.Now().UnixNano())
}

// NewServiceWithSeed creates a service whose memory models use the given
// fuzz seed, for reproducible scheduling
func NewServiceWithSeed(seed int64) *Service {
	return &Service{
		users:     database.NewUserRepository(),
		subtopics: database.NewSubtopicRepository(),
		states:    database.NewMemoryStateRepository(),
		capacity:  database.NewCapacityRepository(),
		schedule:  database.NewScheduleRepository(),
		seed:      seed,
	}
}

// ReviewSubtopic records a review outcome: it runs the user's memory model
// on the subtopic's current state and persists the updated state. A subtopic
// reviewed for the first time enters study implicitly.
func (s *Service) ReviewSubtopic(ctx context.Context, userID, subtopicID int64, rating models.Rating, now time.Time) (*models.MemoryState, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	model, err := s.modelFor(user)
	if err != nil {
		return nil, err
	}

	state, err := s.states.GetByUserAndSubtopic(ctx, userID, subtopicID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		fresh := models.NewMemoryState(userID, subtopicID, now)
		state = &fresh
	}

	next, err := model.Review(*state, rating, now)
	if err != nil {
		return nil, err
	}
	if err := s.states.CreateOrUpdate(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// PlanRange distributes the user's study queue across [start, end]: reviews
// coming due within the range (most urgent first) followed by not-yet-started
// subtopics in topic order. Successful placements are persisted; per-item
// failures are reported in the result and leave no trace in the store.
func (s *Service) PlanRange(ctx context.Context, userID int64, start, end, now time.Time) (*models.DistributionResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.buildQueue(ctx, userID, end)
	if err != nil {
		return nil, err
	}

	ledger, err := s.BuildLedger(ctx, user)
	if err != nil {
		return nil, err
	}

	p := planner.New(ledger)
	p.Now = func() time.Time { return now }
	result, err := p.Distribute(items, start, end)
	if err != nil {
		return nil, err
	}

	placements := make([]models.StudyPlacement, 0, len(result.Assignments))
	for _, a := range result.Assignments {
		placements = append(placements, models.StudyPlacement{
			UserID:     userID,
			SubtopicID: a.ItemID,
			Date:       availability.DateKey(a.Date),
			Hours:      a.Hours,
		})
	}
	if err := s.schedule.CreateBatch(ctx, placements); err != nil {
		return nil, err
	}
	return result, nil
}

// BuildLedger reconstructs the user's availability ledger from persisted
// capacity exceptions and committed placements
func (s *Service) BuildLedger(ctx context.Context, user *models.User) (*availability.Ledger, error) {
	ledger := availability.NewLedger(user.DailyHours)

	caps, err := s.capacity.GetForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range caps {
		date, err := time.Parse(availability.DateLayout, c.Date)
		if err != nil {
			return nil, fmt.Errorf("malformed capacity date %q: %v", c.Date, err)
		}
		ledger.SetException(date, c.ExceptionHours, c.Reason)
	}

	load, err := s.schedule.LoadByDate(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for key, hours := range load {
		date, err := time.Parse(availability.DateLayout, key)
		if err != nil {
			return nil, fmt.Errorf("malformed schedule date %q: %v", key, err)
		}
		ledger.AddLoad(date, hours)
	}
	return ledger, nil
}

// CheckDay reports whether newItemHours more would overload the date
func (s *Service) CheckDay(ctx context.Context, userID int64, date time.Time, newItemHours float64) (models.ConflictReport, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.ConflictReport{}, err
	}
	ledger, err := s.BuildLedger(ctx, user)
	if err != nil {
		return models.ConflictReport{}, err
	}
	return ledger.CheckConflict(date, newItemHours), nil
}

// SetDayException overrides the user's capacity for one date. Zero hours
// marks the day fully unavailable.
func (s *Service) SetDayException(ctx context.Context, userID int64, date time.Time, hours float64, reason string) error {
	return s.capacity.Upsert(ctx, &models.DayCapacity{
		UserID:         userID,
		Date:           availability.DateKey(date),
		ExceptionHours: hours,
		Reason:         reason,
	})
}

// ClearDayException removes an override, reverting the date to the user's
// default hours
func (s *Service) ClearDayException(ctx context.Context, userID int64, date time.Time) error {
	return s.capacity.Delete(ctx, userID, availability.DateKey(date))
}

// DueCount returns how many subtopics the user must review at the given time
func (s *Service) DueCount(ctx context.Context, userID int64, now time.Time) (int, error) {
	return s.states.CountDueForUser(ctx, userID, now)
}

// PlannedHoursOn returns the hours already committed for the user on a date
func (s *Service) PlannedHoursOn(ctx context.Context, userID int64, date time.Time) (float64, error) {
	return s.schedule.HoursOn(ctx, userID, availability.DateKey(date))
}

// buildQueue assembles the distribution queue: due reviews ordered by
// urgency, then unstarted subtopics in topic/position order. Item IDs are
// subtopic IDs; durations come from the subtopic estimates.
func (s *Service) buildQueue(ctx context.Context, userID int64, horizon time.Time) ([]models.DistributionItem, error) {
	subtopics, err := s.subtopics.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	hoursByID := make(map[int64]float64, len(subtopics))
	for _, st := range subtopics {
		hoursByID[st.ID] = st.EstimatedHours
	}

	due, err := s.states.GetDueForUser(ctx, userID, horizon)
	if err != nil {
		return nil, err
	}
	spaced_repetition.SortByUrgency(due)

	var items []models.DistributionItem
	for _, state := range due {
		items = append(items, models.DistributionItem{
			ID:            state.SubtopicID,
			DurationHours: hoursByID[state.SubtopicID],
		})
	}

	unstarted, err := s.subtopics.GetUnstartedForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, st := range unstarted {
		items = append(items, models.DistributionItem{
			ID:            st.ID,
			DurationHours: st.EstimatedHours,
		})
	}
	return items, nil
}

func (s *Service) modelFor(user *models.User) (*spaced_repetition.Model, error) {
	profile, err := spaced_repetition.ProfileByName(user.ProfileName)
	if err != nil {
		return nil, err
	}
	return spaced_repetition.NewWithSeed(profile, s.seed), nil
}
