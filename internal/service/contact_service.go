package service

import (
	"context"
	"fmt"
	"log"

	"vocabdrill/internal/models"
	"vocabdrill/internal/repository"
	"vocabdrill/internal/validation"
)

// ContactService stores contact form messages and notifies the
// operator by email
type ContactService struct {
	contactRepo  *repository.ContactRepository
	emailService *EmailService
}

// NewContactService creates a new contact service
func NewContactService(contactRepo *repository.ContactRepository, emailService *EmailService) *ContactService {
	return &ContactService{
		contactRepo:  contactRepo,
		emailService: emailService,
	}
}

// Submit validates and stores a message. The email notification is
// best effort, storing the message is what counts.
func (s *ContactService) Submit(ctx context.Context, userID *int64, name, body string) (*models.ContactMessage, error) {
	if err := validation.ValidateContactBody(body); err != nil {
		return nil, err
	}

	msg, err := s.contactRepo.Create(userID, name, body)
	if err != nil {
		return nil, fmt.Errorf("failed to store contact message: %w", err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendContactNotification(ctx, name, body); err != nil {
			log.Printf("Failed to send contact notification: %v", err)
		}
	}

	return msg, nil
}

// Recent lists the latest messages for the admin screen
func (s *ContactService) Recent(limit int) ([]models.ContactMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.contactRepo.List(limit)
}
