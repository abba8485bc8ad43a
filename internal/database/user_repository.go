package database

import (
	"context"
	"fmt"

	"github.com/example/studyplan/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// GetByID returns a user by their ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := DB.Rebind("SELECT * FROM users WHERE id = ?")
	if err := DB.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return &user, nil
}

// GetActive returns all active users
func (r *UserRepository) GetActive(ctx context.Context) ([]models.User, error) {
	var users []models.User
	query := "SELECT * FROM users WHERE active ORDER BY id"
	if err := DB.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to get active users: %v", err)
	}
	return users, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := DB.Rebind(`
		INSERT INTO users (name, profile_name, daily_hours, planning_hour, active)
		VALUES (?, ?, ?, ?, ?)
	`)
	result, err := DB.ExecContext(ctx, query,
		user.Name, user.ProfileName, user.DailyHours, user.PlanningHour, user.Active)
	if err != nil {
		return fmt.Errorf("failed to create user: %v", err)
	}
	if Type() == "sqlite" {
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %v", err)
		}
		user.ID = id
		return nil
	}
	// Postgres: fetch the assigned ID separately, ExecContext has no RETURNING
	return DB.GetContext(ctx, &user.ID,
		DB.Rebind("SELECT id FROM users WHERE name = ? ORDER BY id DESC LIMIT 1"), user.Name)
}

// Update modifies a user's planning preferences
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := DB.Rebind(`
		UPDATE users SET
			name = ?,
			profile_name = ?,
			daily_hours = ?,
			planning_hour = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	result, err := DB.ExecContext(ctx, query,
		user.Name, user.ProfileName, user.DailyHours, user.PlanningHour, user.Active, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d not found", user.ID)
	}
	return nil
}
