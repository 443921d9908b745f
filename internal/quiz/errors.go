package quiz

import "errors"

// Error kinds surfaced by the quiz core. All of them are recoverable: the
// boundary layer maps each one to a redirect or an informational page.
var (
	// ErrSessionNotStarted means no active session exists for the user.
	ErrSessionNotStarted = errors.New("quiz session not started")

	// ErrSessionExhausted means the session position has reached the end of
	// the question sequence; the caller must move to the result flow.
	ErrSessionExhausted = errors.New("quiz session exhausted")

	// ErrNoSavedSession means there is no suspended snapshot at the
	// requested slot.
	ErrNoSavedSession = errors.New("no saved quiz session")

	// ErrNoMistakesAvailable means a review set would be empty.
	ErrNoMistakesAvailable = errors.New("no mistakes available for review")

	// ErrInvalidCategoryParams means the category carried a malformed or
	// out-of-bounds range.
	ErrInvalidCategoryParams = errors.New("invalid quiz category parameters")

	// ErrWordNotFound means a word index fell outside the word table.
	ErrWordNotFound = errors.New("word not found")
)
