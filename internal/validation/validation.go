package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateUsername checks if a login name is valid
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if len(username) < 3 {
		return ValidationError{Field: "username", Message: "username must be at least 3 characters"}
	}
	if len(username) > 64 {
		return ValidationError{Field: "username", Message: "username must be at most 64 characters"}
	}
	if !usernameRegex.MatchString(username) {
		return ValidationError{Field: "username", Message: "username may only contain letters, digits, dots, dashes and underscores"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateNickname checks if a display nickname is valid
func ValidateNickname(nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return ValidationError{Field: "nickname", Message: "nickname is required"}
	}
	if utf8.RuneCountInString(nickname) > 32 {
		return ValidationError{Field: "nickname", Message: "nickname must be at most 32 characters"}
	}
	return nil
}

// ValidateContactBody checks a contact form message
func ValidateContactBody(body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return ValidationError{Field: "body", Message: "message is required"}
	}
	if utf8.RuneCountInString(body) > 4000 {
		return ValidationError{Field: "body", Message: "message must be at most 4000 characters"}
	}
	return nil
}
