package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/study"
	"github.com/go-co-op/gocron"
)

// Default notification window
const (
	DefaultNotificationStartHour = 7
	DefaultNotificationEndHour   = 22
)

// Notifier delivers the daily study summary to a user
type Notifier interface {
	SendStudySummary(userID int64, dueCount int, plannedHours float64) error
}

// LogNotifier writes summaries to the process log. Transport to the user is
// the caller's concern; this is the implementation the daemon ships with.
type LogNotifier struct{}

// SendStudySummary implements Notifier
func (LogNotifier) SendStudySummary(userID int64, dueCount int, plannedHours float64) error {
	log.Printf("user %d: %d subtopics due, %.1f hours planned today", userID, dueCount, plannedHours)
	return nil
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *study.Service
	notifier  Notifier
}

// New creates a new scheduler instance
func New(service *study.Service, notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly sweep: each user is notified in the hour they configured
	s.scheduler.Every(1).Hour().Do(s.checkAndSendSummaries)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendSummaries sends the daily summary to users whose planning hour
// matches the current hour, within the configured notification window
func (s *Scheduler) checkAndSendSummaries() {
	now := time.Now()
	currentHour := now.Hour()

	startHour := envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := envHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping summaries",
			currentHour, startHour, endHour)
		return
	}

	ctx := context.Background()
	userRepo := database.NewUserRepository()

	users, err := userRepo.GetActive(ctx)
	if err != nil {
		log.Printf("Error getting active users: %v", err)
		return
	}

	for _, user := range users {
		if user.PlanningHour != currentHour {
			continue
		}
		if err := s.notifyUser(ctx, user.ID, now); err != nil {
			log.Printf("Error sending summary to user %d: %v", user.ID, err)
		}
	}
}

// RunManualCheck forces a summary for a specific user
func (s *Scheduler) RunManualCheck(userID int64) error {
	return s.notifyUser(context.Background(), userID, time.Now())
}

func (s *Scheduler) notifyUser(ctx context.Context, userID int64, now time.Time) error {
	dueCount, err := s.service.DueCount(ctx, userID, now)
	if err != nil {
		return err
	}
	plannedHours, err := s.service.PlannedHoursOn(ctx, userID, now)
	if err != nil {
		return err
	}
	// Nothing due and nothing planned: stay quiet
	if dueCount == 0 && plannedHours == 0 {
		return nil
	}
	return s.notifier.SendStudySummary(userID, dueCount, plannedHours)
}

func envHour(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
