package models

import "time"

// ContactMessage is a message submitted through the contact form
type ContactMessage struct {
	ID        int64
	UserID    *int64
	Name      string
	Body      string
	CreatedAt time.Time
}
