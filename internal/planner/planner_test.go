package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/example/studyplan/internal/availability"
	"github.com/example/studyplan/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

func newPlanner(defaultHours float64) *Planner {
	p := New(availability.NewLedger(defaultHours))
	p.Now = func() time.Time { return today }
	return p
}

func items(durations ...float64) []models.DistributionItem {
	out := make([]models.DistributionItem, len(durations))
	for i, d := range durations {
		out[i] = models.DistributionItem{ID: int64(i + 1), DurationHours: d}
	}
	return out
}

func TestDistributeFirstFitAcrossTwoDays(t *testing.T) {
	// Day 1 holds 3h, day 2 holds 5h; three 2h items
	p := newPlanner(5)
	p.Ledger.SetException(today, 3, "")
	day2 := today.AddDate(0, 0, 1)

	result, err := p.Distribute(items(2, 2, 2), today, day2)
	require.NoError(t, err)
	require.Empty(t, result.Failures)
	require.Len(t, result.Assignments, 3)

	d1, ok := result.AssignedDate(1)
	require.True(t, ok)
	assert.True(t, d1.Equal(today), "item 1 fits on day 1")

	d2, ok := result.AssignedDate(2)
	require.True(t, ok)
	assert.True(t, d2.Equal(day2), "item 2 skips day 1 (2+2 > 3)")

	d3, ok := result.AssignedDate(3)
	require.True(t, ok)
	assert.True(t, d3.Equal(day2), "item 3 still fits on day 2 (4 <= 5)")

	load := p.Ledger.ScheduledLoad()
	assert.Equal(t, 2.0, load[availability.DateKey(today)])
	assert.Equal(t, 4.0, load[availability.DateKey(day2)])
}

func TestDistributeOversizedItemFailsWithoutBlockingOthers(t *testing.T) {
	p := newPlanner(3)
	end := today.AddDate(0, 0, 4)

	result, err := p.Distribute(items(8, 2, 2), today, end)
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, int64(1), result.Failures[0].ItemID)
	assert.Equal(t, ReasonNoCapacity, result.Failures[0].Reason)

	require.Len(t, result.Assignments, 2)
	d2, _ := result.AssignedDate(2)
	d3, _ := result.AssignedDate(3)
	assert.True(t, d2.Equal(today), "failure does not advance the cursor")
	assert.True(t, d3.Equal(today.AddDate(0, 0, 1)))
}

func TestDistributeCursorNeverMovesBackward(t *testing.T) {
	// Item 2 lands on day 2; item 3 would fit on day 1 but may not go back
	p := newPlanner(4)
	end := today.AddDate(0, 0, 2)

	result, err := p.Distribute(items(3, 3, 1), today, end)
	require.NoError(t, err)
	require.Empty(t, result.Failures)

	d3, _ := result.AssignedDate(3)
	assert.True(t, d3.Equal(today.AddDate(0, 0, 1)),
		"item 3 joins item 2's day instead of backfilling day 1")
}

func TestDistributeSingleDayRange(t *testing.T) {
	p := newPlanner(4)

	result, err := p.Distribute(items(2, 2, 2), today, today)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, int64(3), result.Failures[0].ItemID)
}

func TestDistributeEmptyQueue(t *testing.T) {
	p := newPlanner(4)

	result, err := p.Distribute(nil, today, today.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Empty(t, result.Assignments)
	assert.Empty(t, result.Failures)
}

func TestDistributeRejectsPastStart(t *testing.T) {
	p := newPlanner(4)

	_, err := p.Distribute(items(1), today.AddDate(0, 0, -1), today)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestDistributeRejectsInvertedRange(t *testing.T) {
	p := newPlanner(4)

	_, err := p.Distribute(items(1), today.AddDate(0, 0, 3), today)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestDistributeAcceptsStartLaterToday(t *testing.T) {
	// Start on today's date with an earlier clock time is still valid:
	// ranges are compared at day grain
	p := New(availability.NewLedger(4))
	p.Now = func() time.Time { return today.Add(14 * time.Hour) }

	_, err := p.Distribute(items(1), today, today)
	assert.NoError(t, err)
}

func TestDistributeHonorsZeroCapacityDays(t *testing.T) {
	p := newPlanner(4)
	p.Ledger.SetException(today, 0, "holiday")

	result, err := p.Distribute(items(2), today, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	assert.True(t, result.Assignments[0].Date.Equal(today.AddDate(0, 0, 1)))
}

func TestDistributeRespectsExistingLoad(t *testing.T) {
	p := newPlanner(4)
	p.Ledger.AddLoad(today, 3.5)

	result, err := p.Distribute(items(1), today, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	assert.True(t, result.Assignments[0].Date.Equal(today.AddDate(0, 0, 1)),
		"3.5 + 1 exceeds 4, so the item moves to the next day")
}
