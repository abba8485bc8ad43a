package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/studyplan/pkg/models"
)

// SubtopicRepository handles database operations for subtopics
type SubtopicRepository struct{}

// NewSubtopicRepository creates a new repository instance
func NewSubtopicRepository() *SubtopicRepository {
	return &SubtopicRepository{}
}

// GetByID returns a subtopic by its ID
func (r *SubtopicRepository) GetByID(ctx context.Context, id int64) (*models.Subtopic, error) {
	var st models.Subtopic
	query := DB.Rebind("SELECT * FROM subtopics WHERE id = ?")
	if err := DB.GetContext(ctx, &st, query, id); err != nil {
		return nil, fmt.Errorf("failed to get subtopic: %v", err)
	}
	return &st, nil
}

// GetAll returns all subtopics ordered by topic and position
func (r *SubtopicRepository) GetAll(ctx context.Context) ([]models.Subtopic, error) {
	var subtopics []models.Subtopic
	query := "SELECT * FROM subtopics ORDER BY topic, position, id"
	if err := DB.SelectContext(ctx, &subtopics, query); err != nil {
		return nil, fmt.Errorf("failed to get subtopics: %v", err)
	}
	return subtopics, nil
}

// GetByTopic returns the subtopics of one topic in position order
func (r *SubtopicRepository) GetByTopic(ctx context.Context, topic string) ([]models.Subtopic, error) {
	var subtopics []models.Subtopic
	query := DB.Rebind("SELECT * FROM subtopics WHERE topic = ? ORDER BY position, id")
	if err := DB.SelectContext(ctx, &subtopics, query, topic); err != nil {
		return nil, fmt.Errorf("failed to get subtopics for topic: %v", err)
	}
	return subtopics, nil
}

// GetUnstartedForUser returns subtopics the user has neither reviewed nor
// already placed on the calendar, in topic/position order. Scheduled-but-not-
// yet-reviewed subtopics are excluded so repeated planning runs don't queue
// them twice.
func (r *SubtopicRepository) GetUnstartedForUser(ctx context.Context, userID int64) ([]models.Subtopic, error) {
	var subtopics []models.Subtopic
	query := DB.Rebind(`
		SELECT s.* FROM subtopics s
		WHERE NOT EXISTS (
			SELECT 1 FROM memory_states ms
			WHERE ms.subtopic_id = s.id AND ms.user_id = ?
		)
		AND NOT EXISTS (
			SELECT 1 FROM study_schedule ss
			WHERE ss.subtopic_id = s.id AND ss.user_id = ?
		)
		ORDER BY s.topic, s.position, s.id
	`)
	if err := DB.SelectContext(ctx, &subtopics, query, userID, userID); err != nil {
		return nil, fmt.Errorf("failed to get unstarted subtopics: %v", err)
	}
	return subtopics, nil
}

// Create inserts a new subtopic
func (r *SubtopicRepository) Create(ctx context.Context, st *models.Subtopic) error {
	query := DB.Rebind(`
		INSERT INTO subtopics (topic, name, estimated_hours, position)
		VALUES (?, ?, ?, ?)
	`)
	result, err := DB.ExecContext(ctx, query, st.Topic, st.Name, st.EstimatedHours, st.Position)
	if err != nil {
		return fmt.Errorf("failed to create subtopic: %v", err)
	}
	if Type() == "sqlite" {
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %v", err)
		}
		st.ID = id
		return nil
	}
	return DB.GetContext(ctx, &st.ID,
		DB.Rebind("SELECT id FROM subtopics WHERE topic = ? AND name = ?"), st.Topic, st.Name)
}

// Update modifies an existing subtopic
func (r *SubtopicRepository) Update(ctx context.Context, st *models.Subtopic) error {
	query := DB.Rebind(`
		UPDATE subtopics SET
			topic = ?,
			name = ?,
			estimated_hours = ?,
			position = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	if _, err := DB.ExecContext(ctx, query, st.Topic, st.Name, st.EstimatedHours, st.Position, st.ID); err != nil {
		return fmt.Errorf("failed to update subtopic: %v", err)
	}
	return nil
}

// CreateOrUpdate upserts a subtopic keyed by (topic, name). Used by the
// plan importer so re-imports refresh estimates instead of duplicating rows.
func (r *SubtopicRepository) CreateOrUpdate(ctx context.Context, st *models.Subtopic) (created bool, err error) {
	var existing models.Subtopic
	query := DB.Rebind("SELECT * FROM subtopics WHERE topic = ? AND name = ?")
	err = DB.GetContext(ctx, &existing, query, st.Topic, st.Name)
	if err == nil {
		st.ID = existing.ID
		return false, r.Update(ctx, st)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to look up subtopic: %v", err)
	}
	return true, r.Create(ctx, st)
}
