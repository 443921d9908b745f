package repository

import (
	"fmt"
	"time"

	"vocabdrill/internal/database"
	"vocabdrill/internal/models"
)

// ContactRepository stores contact form messages
type ContactRepository struct {
	db *database.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *database.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create stores a new contact message
func (r *ContactRepository) Create(userID *int64, name, body string) (*models.ContactMessage, error) {
	query := `
		INSERT INTO contact_messages (user_id, name, body)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, userID, name, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact message: %w", err)
	}

	return &models.ContactMessage{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Body:      body,
		CreatedAt: time.Now(),
	}, nil
}

// List returns the most recent messages, newest first
func (r *ContactRepository) List(limit int) ([]models.ContactMessage, error) {
	query := `
		SELECT id, user_id, name, body, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ContactMessage
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, nil
}
