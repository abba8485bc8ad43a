// Package planner places study items onto calendar days using a first-fit
// sequential scan over the availability ledger.
package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/studyplan/internal/availability"
	"github.com/example/studyplan/pkg/models"
)

// ErrInvalidRange is returned when the distribution range starts in the past
// or ends before it starts
var ErrInvalidRange = errors.New("planner: invalid date range")

// ReasonNoCapacity marks an item that fit on no day within the range. It is
// a per-item outcome, not a batch failure: later items are still attempted.
const ReasonNoCapacity = "NoCapacity"

// Planner distributes items across a date range. Items are taken in input
// order, which is the priority order: callers pre-sort by urgency before
// calling. The cursor only moves forward, so a later item never lands on an
// earlier day than the previous placement.
type Planner struct {
	Ledger *availability.Ledger

	// Now supplies the current time for range validation; nil means time.Now
	Now func() time.Time
}

// New creates a planner over the given ledger
func New(ledger *availability.Ledger) *Planner {
	return &Planner{Ledger: ledger}
}

// Distribute assigns each item the first date in [start, end] whose capacity
// admits its duration, committing the hours on assignment. Items that fit
// nowhere are reported with ReasonNoCapacity and do not block later items.
func (p *Planner) Distribute(items []models.DistributionItem, start, end time.Time) (*models.DistributionResult, error) {
	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}

	startDay := truncateDay(start)
	endDay := truncateDay(end)
	today := truncateDay(now)

	if startDay.Before(today) {
		return nil, fmt.Errorf("%w: start %s is before today %s",
			ErrInvalidRange, startDay.Format(availability.DateLayout), today.Format(availability.DateLayout))
	}
	if endDay.Before(startDay) {
		return nil, fmt.Errorf("%w: end %s is before start %s",
			ErrInvalidRange, endDay.Format(availability.DateLayout), startDay.Format(availability.DateLayout))
	}

	result := &models.DistributionResult{}
	cursor := startDay

	for _, item := range items {
		assigned := false
		// Check-and-commit runs atomically per date so concurrent
		// distributions cannot both fill the same remaining capacity.
		for day := cursor; !day.After(endDay); day = day.AddDate(0, 0, 1) {
			if _, ok := p.Ledger.TryCommit(day, item.DurationHours); ok {
				result.Assignments = append(result.Assignments, models.Assignment{
					ItemID: item.ID,
					Date:   day,
					Hours:  item.DurationHours,
				})
				cursor = day
				assigned = true
				break
			}
		}
		if !assigned {
			result.Failures = append(result.Failures, models.DistributionFailure{
				ItemID: item.ID,
				Reason: ReasonNoCapacity,
			})
		}
	}

	return result, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
