package repository

import (
	"database/sql"
	"fmt"

	"vocabdrill/internal/database"
)

// StateRepository persists the per-user quiz state document. The whole
// document is written in one statement so a crash never leaves a user
// with half-updated state.
type StateRepository struct {
	db *database.DB
}

// NewStateRepository creates a new state repository
func NewStateRepository(db *database.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Load returns the raw state document for a user, or ok=false when the
// user has no saved state yet
func (r *StateRepository) Load(userID int64) ([]byte, bool, error) {
	var doc string
	query := "SELECT doc FROM quiz_state WHERE user_id = ?"
	err := r.db.QueryRow(query, userID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load quiz state: %w", err)
	}
	return []byte(doc), true, nil
}

// Save writes the full state document for a user, replacing any
// previous version
func (r *StateRepository) Save(userID int64, doc []byte) error {
	query := r.db.Dialect.UpsertQuizState()
	if _, err := r.db.Exec(query, userID, string(doc)); err != nil {
		return fmt.Errorf("failed to save quiz state: %w", err)
	}
	return nil
}

// Delete removes a user's state document
func (r *StateRepository) Delete(userID int64) error {
	query := "DELETE FROM quiz_state WHERE user_id = ?"
	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to delete quiz state: %w", err)
	}
	return nil
}
