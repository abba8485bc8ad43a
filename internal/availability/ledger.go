// Package availability tracks per-day study capacity and committed load,
// and answers conflict queries for the distribution planner.
package availability

import (
	"math"
	"sync"
	"time"

	"github.com/example/studyplan/pkg/models"
)

// DateLayout is the calendar-day key format used throughout the ledger
const DateLayout = "2006-01-02"

type exception struct {
	hours  float64
	reason string
}

// Ledger holds a user's effective daily capacity (a default plus per-day
// exceptions) and the load already committed per day. The zero hours
// exception is a valid "fully unavailable" marker, distinct from no
// exception at all.
//
// All methods are safe for concurrent use. Commit and TryCommit serialize
// the read-modify-write of a day's load so concurrent planners cannot
// jointly overcommit a date.
type Ledger struct {
	mu           sync.Mutex
	defaultHours float64
	exceptions   map[string]exception
	load         map[string]float64
}

// NewLedger creates a ledger with the given default daily hours
func NewLedger(defaultHours float64) *Ledger {
	return &Ledger{
		defaultHours: defaultHours,
		exceptions:   make(map[string]exception),
		load:         make(map[string]float64),
	}
}

// DateKey truncates a time to its calendar day key
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// CapacityOn returns the effective capacity for a date: the exception hours
// if one is set, the default otherwise
func (l *Ledger) CapacityOn(date time.Time) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.capacityLocked(DateKey(date))
}

// SetException upserts a capacity override for a date. Hours may be zero to
// mark the day fully unavailable.
func (l *Ledger) SetException(date time.Time, hours float64, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exceptions[DateKey(date)] = exception{hours: hours, reason: reason}
}

// ClearException removes a capacity override, reverting the date to the
// default hours
func (l *Ledger) ClearException(date time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.exceptions, DateKey(date))
}

// AddLoad records hours already committed on a date, used when rebuilding a
// ledger from persisted placements
func (l *Ledger) AddLoad(date time.Time, hours float64) {
	l.Commit(date, hours)
}

// CheckConflict reports whether adding newItemHours to the date would exceed
// its effective capacity. Read-only: the scheduled load is never mutated,
// so repeated calls with unchanged state return identical reports.
func (l *Ledger) CheckConflict(date time.Time, newItemHours float64) models.ConflictReport {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.checkLocked(DateKey(date), newItemHours)
}

// Commit adds hours to the date's scheduled load. It applies no conflict
// policy of its own: callers that want to block overcommitment check first,
// or use TryCommit.
func (l *Ledger) Commit(date time.Time, hours float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load[DateKey(date)] += hours
}

// TryCommit checks the date and commits the hours only if they fit,
// as a single critical section. It returns the conflict report the decision
// was based on and whether the commit happened.
func (l *Ledger) TryCommit(date time.Time, hours float64) (models.ConflictReport, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := DateKey(date)
	report := l.checkLocked(key, hours)
	if report.HasConflict {
		return report, false
	}
	l.load[key] += hours
	return report, true
}

// ScheduledLoad returns a copy of the committed hours per date key
func (l *Ledger) ScheduledLoad() map[string]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]float64, len(l.load))
	for k, v := range l.load {
		out[k] = v
	}
	return out
}

// Exceptions returns the current capacity overrides as DayCapacity values
// for the caller to persist
func (l *Ledger) Exceptions() []models.DayCapacity {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.DayCapacity, 0, len(l.exceptions))
	for k, e := range l.exceptions {
		out = append(out, models.DayCapacity{Date: k, ExceptionHours: e.hours, Reason: e.reason})
	}
	return out
}

func (l *Ledger) capacityLocked(key string) float64 {
	if e, ok := l.exceptions[key]; ok {
		return e.hours
	}
	return l.defaultHours
}

func (l *Ledger) checkLocked(key string, newItemHours float64) models.ConflictReport {
	available := l.capacityLocked(key)
	scheduled := l.load[key]
	total := scheduled + newItemHours
	return models.ConflictReport{
		Date:                  key,
		HasConflict:           total > available,
		AvailableHours:        available,
		ScheduledHours:        scheduled,
		NewItemHours:          newItemHours,
		TotalAfterSchedule:    total,
		OverloadHours:         math.Max(0, total-available),
		SuggestedAvailability: math.Ceil(total*2) / 2,
	}
}
