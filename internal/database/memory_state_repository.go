package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/studyplan/pkg/models"
)

// MemoryStateRepository handles database operations for per-subtopic memory
// states
type MemoryStateRepository struct{}

// NewMemoryStateRepository creates a new repository instance
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{}
}

// GetByUserAndSubtopic returns the memory state for a specific user and
// subtopic, or nil if the subtopic has not entered study yet
func (r *MemoryStateRepository) GetByUserAndSubtopic(ctx context.Context, userID, subtopicID int64) (*models.MemoryState, error) {
	var state models.MemoryState
	query := DB.Rebind("SELECT * FROM memory_states WHERE user_id = ? AND subtopic_id = ?")
	err := DB.GetContext(ctx, &state, query, userID, subtopicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memory state: %v", err)
	}
	return &state, nil
}

// GetForUser returns all memory states for a user
func (r *MemoryStateRepository) GetForUser(ctx context.Context, userID int64) ([]models.MemoryState, error) {
	var states []models.MemoryState
	query := DB.Rebind("SELECT * FROM memory_states WHERE user_id = ? ORDER BY due ASC")
	if err := DB.SelectContext(ctx, &states, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get memory states: %v", err)
	}
	return states, nil
}

// GetDueForUser returns memory states due at the given time, earliest first
func (r *MemoryStateRepository) GetDueForUser(ctx context.Context, userID int64, now time.Time) ([]models.MemoryState, error) {
	var states []models.MemoryState
	query := DB.Rebind("SELECT * FROM memory_states WHERE user_id = ? AND due <= ? ORDER BY due ASC")
	if err := DB.SelectContext(ctx, &states, query, userID, now); err != nil {
		return nil, fmt.Errorf("failed to get due memory states: %v", err)
	}
	return states, nil
}

// CountDueForUser returns how many subtopics are due at the given time
func (r *MemoryStateRepository) CountDueForUser(ctx context.Context, userID int64, now time.Time) (int, error) {
	var count int
	query := DB.Rebind("SELECT COUNT(*) FROM memory_states WHERE user_id = ? AND due <= ?")
	if err := DB.GetContext(ctx, &count, query, userID, now); err != nil {
		return 0, fmt.Errorf("failed to count due memory states: %v", err)
	}
	return count, nil
}

// Create inserts a new memory state
func (r *MemoryStateRepository) Create(ctx context.Context, state *models.MemoryState) error {
	query := DB.Rebind(`
		INSERT INTO memory_states (
			user_id, subtopic_id, difficulty, stability, state,
			due, last_review, review_count, last_rating
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	result, err := DB.ExecContext(ctx, query,
		state.UserID, state.SubtopicID, state.Difficulty, state.Stability, state.State,
		state.Due, state.LastReview, state.ReviewCount, state.LastRating)
	if err != nil {
		return fmt.Errorf("failed to create memory state: %v", err)
	}
	if Type() == "sqlite" {
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %v", err)
		}
		state.ID = id
		return nil
	}
	return DB.GetContext(ctx, &state.ID,
		DB.Rebind("SELECT id FROM memory_states WHERE user_id = ? AND subtopic_id = ?"),
		state.UserID, state.SubtopicID)
}

// Update modifies an existing memory state
func (r *MemoryStateRepository) Update(ctx context.Context, state *models.MemoryState) error {
	query := DB.Rebind(`
		UPDATE memory_states SET
			difficulty = ?,
			stability = ?,
			state = ?,
			due = ?,
			last_review = ?,
			review_count = ?,
			last_rating = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	result, err := DB.ExecContext(ctx, query,
		state.Difficulty, state.Stability, state.State,
		state.Due, state.LastReview, state.ReviewCount, state.LastRating, state.ID)
	if err != nil {
		return fmt.Errorf("failed to update memory state: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("memory state %d not found", state.ID)
	}
	return nil
}

// CreateOrUpdate creates or updates a memory state keyed by (user, subtopic)
func (r *MemoryStateRepository) CreateOrUpdate(ctx context.Context, state *models.MemoryState) error {
	var existingID int64
	query := DB.Rebind("SELECT id FROM memory_states WHERE user_id = ? AND subtopic_id = ?")
	err := DB.GetContext(ctx, &existingID, query, state.UserID, state.SubtopicID)
	if err == nil {
		state.ID = existingID
		return r.Update(ctx, state)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to look up memory state: %v", err)
	}
	return r.Create(ctx, state)
}

// Delete removes a memory state
func (r *MemoryStateRepository) Delete(ctx context.Context, id int64) error {
	query := DB.Rebind("DELETE FROM memory_states WHERE id = ?")
	if _, err := DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete memory state: %v", err)
	}
	return nil
}
