package database

import (
	"context"
	"fmt"

	"github.com/example/studyplan/pkg/models"
)

// ScheduleRepository handles database operations for committed study
// placements
type ScheduleRepository struct{}

// NewScheduleRepository creates a new repository instance
func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{}
}

// Create inserts a placement
func (r *ScheduleRepository) Create(ctx context.Context, p *models.StudyPlacement) error {
	query := DB.Rebind(`
		INSERT INTO study_schedule (user_id, subtopic_id, date, hours)
		VALUES (?, ?, ?, ?)
	`)
	result, err := DB.ExecContext(ctx, query, p.UserID, p.SubtopicID, p.Date, p.Hours)
	if err != nil {
		return fmt.Errorf("failed to create placement: %v", err)
	}
	if Type() == "sqlite" {
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %v", err)
		}
		p.ID = id
	}
	return nil
}

// CreateBatch inserts placements from one distribution inside a transaction
// so a failed insert leaves no partial plan behind
func (r *ScheduleRepository) CreateBatch(ctx context.Context, placements []models.StudyPlacement) error {
	if len(placements) == 0 {
		return nil
	}
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	query := tx.Rebind(`
		INSERT INTO study_schedule (user_id, subtopic_id, date, hours)
		VALUES (?, ?, ?, ?)
	`)
	for _, p := range placements {
		if _, err := tx.ExecContext(ctx, query, p.UserID, p.SubtopicID, p.Date, p.Hours); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create placement: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit placements: %v", err)
	}
	return nil
}

// LoadByDate returns the committed hours per date for a user
func (r *ScheduleRepository) LoadByDate(ctx context.Context, userID int64) (map[string]float64, error) {
	rows := []struct {
		Date  string  `db:"date"`
		Hours float64 `db:"hours"`
	}{}
	query := DB.Rebind(`
		SELECT date, SUM(hours) AS hours
		FROM study_schedule
		WHERE user_id = ?
		GROUP BY date
	`)
	if err := DB.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get scheduled load: %v", err)
	}
	load := make(map[string]float64, len(rows))
	for _, row := range rows {
		load[row.Date] = row.Hours
	}
	return load, nil
}

// HoursOn returns the committed hours for a user on one date
func (r *ScheduleRepository) HoursOn(ctx context.Context, userID int64, date string) (float64, error) {
	var hours float64
	query := DB.Rebind(`
		SELECT COALESCE(SUM(hours), 0)
		FROM study_schedule
		WHERE user_id = ? AND date = ?
	`)
	if err := DB.GetContext(ctx, &hours, query, userID, date); err != nil {
		return 0, fmt.Errorf("failed to get hours for date: %v", err)
	}
	return hours, nil
}

// GetForDate returns the placements on one date in insertion order
func (r *ScheduleRepository) GetForDate(ctx context.Context, userID int64, date string) ([]models.StudyPlacement, error) {
	var placements []models.StudyPlacement
	query := DB.Rebind("SELECT * FROM study_schedule WHERE user_id = ? AND date = ? ORDER BY id")
	if err := DB.SelectContext(ctx, &placements, query, userID, date); err != nil {
		return nil, fmt.Errorf("failed to get placements: %v", err)
	}
	return placements, nil
}

// Delete removes a placement. The caller is responsible for treating the
// freed hours as available again on the next ledger rebuild.
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	query := DB.Rebind("DELETE FROM study_schedule WHERE id = ?")
	if _, err := DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete placement: %v", err)
	}
	return nil
}
