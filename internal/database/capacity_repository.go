package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/studyplan/pkg/models"
)

// CapacityRepository handles database operations for per-day capacity
// exceptions
type CapacityRepository struct{}

// NewCapacityRepository creates a new repository instance
func NewCapacityRepository() *CapacityRepository {
	return &CapacityRepository{}
}

// GetForUser returns all capacity exceptions for a user
func (r *CapacityRepository) GetForUser(ctx context.Context, userID int64) ([]models.DayCapacity, error) {
	var caps []models.DayCapacity
	query := DB.Rebind("SELECT * FROM day_capacities WHERE user_id = ? ORDER BY date")
	if err := DB.SelectContext(ctx, &caps, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get day capacities: %v", err)
	}
	return caps, nil
}

// GetByDate returns the capacity exception for a specific date, if any
func (r *CapacityRepository) GetByDate(ctx context.Context, userID int64, date string) (*models.DayCapacity, error) {
	var dc models.DayCapacity
	query := DB.Rebind("SELECT * FROM day_capacities WHERE user_id = ? AND date = ?")
	err := DB.GetContext(ctx, &dc, query, userID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get day capacity: %v", err)
	}
	return &dc, nil
}

// Upsert creates or replaces the capacity exception for (user, date)
func (r *CapacityRepository) Upsert(ctx context.Context, dc *models.DayCapacity) error {
	var existingID int64
	query := DB.Rebind("SELECT id FROM day_capacities WHERE user_id = ? AND date = ?")
	err := DB.GetContext(ctx, &existingID, query, dc.UserID, dc.Date)
	if err == nil {
		update := DB.Rebind(`
			UPDATE day_capacities SET
				exception_hours = ?,
				reason = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`)
		if _, err := DB.ExecContext(ctx, update, dc.ExceptionHours, dc.Reason, existingID); err != nil {
			return fmt.Errorf("failed to update day capacity: %v", err)
		}
		dc.ID = existingID
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to look up day capacity: %v", err)
	}

	insert := DB.Rebind(`
		INSERT INTO day_capacities (user_id, date, exception_hours, reason)
		VALUES (?, ?, ?, ?)
	`)
	result, err := DB.ExecContext(ctx, insert, dc.UserID, dc.Date, dc.ExceptionHours, dc.Reason)
	if err != nil {
		return fmt.Errorf("failed to create day capacity: %v", err)
	}
	if Type() == "sqlite" {
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %v", err)
		}
		dc.ID = id
	}
	return nil
}

// Delete removes the capacity exception for a date, restoring the default
func (r *CapacityRepository) Delete(ctx context.Context, userID int64, date string) error {
	query := DB.Rebind("DELETE FROM day_capacities WHERE user_id = ? AND date = ?")
	if _, err := DB.ExecContext(ctx, query, userID, date); err != nil {
		return fmt.Errorf("failed to delete day capacity: %v", err)
	}
	return nil
}
