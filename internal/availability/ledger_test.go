package availability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

func TestCapacityDefaultsAndExceptions(t *testing.T) {
	l := NewLedger(2.5)

	assert.Equal(t, 2.5, l.CapacityOn(day))

	l.SetException(day, 4, "weekend sprint")
	assert.Equal(t, 4.0, l.CapacityOn(day))
	assert.Equal(t, 2.5, l.CapacityOn(day.AddDate(0, 0, 1)), "other days keep the default")

	l.ClearException(day)
	assert.Equal(t, 2.5, l.CapacityOn(day), "clearing reverts to the default")
}

func TestZeroHourExceptionMeansUnavailable(t *testing.T) {
	l := NewLedger(3)

	l.SetException(day, 0, "holiday")
	assert.Equal(t, 0.0, l.CapacityOn(day))

	report := l.CheckConflict(day, 0.5)
	assert.True(t, report.HasConflict)

	l.ClearException(day)
	assert.Equal(t, 3.0, l.CapacityOn(day))
}

func TestCheckConflictArithmetic(t *testing.T) {
	l := NewLedger(5)
	l.Commit(day, 4)

	report := l.CheckConflict(day, 2)

	assert.True(t, report.HasConflict)
	assert.Equal(t, 5.0, report.AvailableHours)
	assert.Equal(t, 4.0, report.ScheduledHours)
	assert.Equal(t, 2.0, report.NewItemHours)
	assert.Equal(t, 6.0, report.TotalAfterSchedule)
	assert.Equal(t, 1.0, report.OverloadHours)
	assert.Equal(t, 6.0, report.SuggestedAvailability)
}

func TestCheckConflictNoOverload(t *testing.T) {
	l := NewLedger(5)
	l.Commit(day, 1.2)

	report := l.CheckConflict(day, 2.1)

	assert.False(t, report.HasConflict)
	assert.Equal(t, 0.0, report.OverloadHours)
	assert.InDelta(t, 3.3, report.TotalAfterSchedule, 1e-9)
	assert.InDelta(t, 3.5, report.SuggestedAvailability, 1e-9, "rounded up to the half hour")
}

func TestCheckConflictIsReadOnly(t *testing.T) {
	l := NewLedger(5)
	l.Commit(day, 4)

	first := l.CheckConflict(day, 2)
	second := l.CheckConflict(day, 2)
	assert.Equal(t, first, second, "repeated checks with unchanged state match")
	assert.Equal(t, 4.0, l.ScheduledLoad()[DateKey(day)], "load untouched")
}

func TestCommitHasNoPolicy(t *testing.T) {
	l := NewLedger(1)

	// Commit never blocks, even into overload; policy lives with the caller
	l.Commit(day, 5)
	assert.Equal(t, 5.0, l.ScheduledLoad()[DateKey(day)])
	assert.True(t, l.CheckConflict(day, 0.1).HasConflict)
}

func TestTryCommit(t *testing.T) {
	l := NewLedger(3)

	report, ok := l.TryCommit(day, 2)
	require.True(t, ok)
	assert.False(t, report.HasConflict)

	report, ok = l.TryCommit(day, 2)
	require.False(t, ok, "2+2 exceeds 3")
	assert.True(t, report.HasConflict)
	assert.Equal(t, 2.0, l.ScheduledLoad()[DateKey(day)], "failed TryCommit leaves load unchanged")
}

func TestTryCommitSerializesConcurrentPlanners(t *testing.T) {
	l := NewLedger(10)

	var wg sync.WaitGroup
	committed := make(chan float64, 40)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := l.TryCommit(day, 1); ok {
				committed <- 1
			}
		}()
	}
	wg.Wait()
	close(committed)

	var total float64
	for h := range committed {
		total += h
	}
	assert.Equal(t, 10.0, total, "exactly the capacity is handed out")
	assert.Equal(t, 10.0, l.ScheduledLoad()[DateKey(day)])
}

func TestDateKeyNormalizesTimeOfDay(t *testing.T) {
	l := NewLedger(5)
	morning := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 9, 10, 22, 30, 0, 0, time.UTC)

	l.Commit(morning, 2)
	report := l.CheckConflict(evening, 1)
	assert.Equal(t, 2.0, report.ScheduledHours, "same calendar day shares one bucket")
}

func TestExceptionsSnapshot(t *testing.T) {
	l := NewLedger(2)
	l.SetException(day, 0, "holiday")

	exceptions := l.Exceptions()
	require.Len(t, exceptions, 1)
	assert.Equal(t, DateKey(day), exceptions[0].Date)
	assert.Equal(t, 0.0, exceptions[0].ExceptionHours)
	assert.Equal(t, "holiday", exceptions[0].Reason)
}
