package scheduler

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/study"
	"github.com/example/studyplan/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	calls []struct {
		userID       int64
		dueCount     int
		plannedHours float64
	}
}

func (n *recordingNotifier) SendStudySummary(userID int64, dueCount int, plannedHours float64) error {
	n.calls = append(n.calls, struct {
		userID       int64
		dueCount     int
		plannedHours float64
	}{userID, dueCount, plannedHours})
	return nil
}

func setupDB(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Setenv("DB_TYPE", "sqlite")
	require.NoError(t, database.Connect())
	t.Cleanup(func() {
		database.Close()
		os.Chdir(wd)
	})
}

func seedUserWithDueItem(t *testing.T) *models.User {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Name: "alice", ProfileName: "balanced", DailyHours: 2, PlanningHour: 8, Active: true}
	require.NoError(t, database.NewUserRepository().Create(ctx, user))

	st := &models.Subtopic{Topic: "algebra", Name: "linear equations", EstimatedHours: 1, Position: 1}
	require.NoError(t, database.NewSubtopicRepository().Create(ctx, st))

	// A state that has been due for a long time
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	state := models.MemoryState{
		UserID:      user.ID,
		SubtopicID:  st.ID,
		Difficulty:  5,
		Stability:   2,
		State:       models.StateReview,
		Due:         past.AddDate(0, 0, 2),
		LastReview:  &past,
		ReviewCount: 3,
	}
	require.NoError(t, database.NewMemoryStateRepository().CreateOrUpdate(ctx, &state))
	return user
}

func TestRunManualCheckNotifiesWhenDue(t *testing.T) {
	setupDB(t)
	user := seedUserWithDueItem(t)

	notifier := &recordingNotifier{}
	s := New(study.NewServiceWithSeed(42), notifier)

	require.NoError(t, s.RunManualCheck(user.ID))
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, user.ID, notifier.calls[0].userID)
	assert.Equal(t, 1, notifier.calls[0].dueCount)
}

func TestRunManualCheckStaysQuietWhenNothingPending(t *testing.T) {
	setupDB(t)
	ctx := context.Background()

	user := &models.User{Name: "bob", ProfileName: "balanced", DailyHours: 2, PlanningHour: 8, Active: true}
	require.NoError(t, database.NewUserRepository().Create(ctx, user))

	notifier := &recordingNotifier{}
	s := New(study.NewServiceWithSeed(42), notifier)

	require.NoError(t, s.RunManualCheck(user.ID))
	assert.Empty(t, notifier.calls, "no due items and no plan: no summary")
}

func TestEnvHour(t *testing.T) {
	t.Setenv("TEST_HOUR", "")
	assert.Equal(t, 9, envHour("TEST_HOUR", 9))

	t.Setenv("TEST_HOUR", "14")
	assert.Equal(t, 14, envHour("TEST_HOUR", 9))

	t.Setenv("TEST_HOUR", "25")
	assert.Equal(t, 9, envHour("TEST_HOUR", 9), "out-of-range values fall back")

	t.Setenv("TEST_HOUR", "noon")
	assert.Equal(t, 9, envHour("TEST_HOUR", 9))
}
