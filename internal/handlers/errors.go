package handlers

import (
	"errors"
	"log"
	"net/http"

	"vocabdrill/internal/validation"
)

// respondWithError writes a plain-text error response. The underlying error
// is logged with logMsg for context but never exposed to the client; logMsg
// falls back to userMsg when empty.
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	http.Error(w, userMsg, status)
}

// validationMessage extracts the user-facing part of a validation error.
func validationMessage(err error) string {
	var verr validation.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}
