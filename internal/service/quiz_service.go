package service

import (
	"encoding/json"
	"fmt"
	"log"

	"vocabdrill/internal/quiz"
	"vocabdrill/internal/repository"
)

// QuizService wraps the quiz lifecycle with per-user persistence.
// Every operation loads the user's state document, applies one
// transition and writes the whole document back, so concurrent tabs
// can lose a step but never corrupt the document.
type QuizService struct {
	stateRepo   *repository.StateRepository
	attemptRepo *repository.AttemptRepository
	lifecycle   *quiz.Lifecycle
}

// NewQuizService creates a new quiz service
func NewQuizService(stateRepo *repository.StateRepository, attemptRepo *repository.AttemptRepository, lifecycle *quiz.Lifecycle) *QuizService {
	return &QuizService{
		stateRepo:   stateRepo,
		attemptRepo: attemptRepo,
		lifecycle:   lifecycle,
	}
}

func (s *QuizService) loadDoc(userID int64) (*quiz.UserDoc, error) {
	raw, ok, err := s.stateRepo.Load(userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return quiz.NewUserDoc(), nil
	}

	doc := &quiz.UserDoc{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("failed to decode quiz state: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

func (s *QuizService) saveDoc(userID int64, doc *quiz.UserDoc) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode quiz state: %w", err)
	}
	return s.stateRepo.Save(userID, raw)
}

// Direction returns the user's current translation direction
func (s *QuizService) Direction(userID int64) (quiz.Direction, error) {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return "", err
	}
	return doc.Dir, nil
}

// SetDirection switches the user's translation direction
func (s *QuizService) SetDirection(userID int64, dir quiz.Direction) error {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return err
	}
	if err := s.lifecycle.SetDirection(doc, dir); err != nil {
		return err
	}
	return s.saveDoc(userID, doc)
}

// Start begins a new session for the given category
func (s *QuizService) Start(userID int64, cat quiz.Category) error {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return err
	}
	if err := s.lifecycle.Start(doc, cat); err != nil {
		return err
	}
	return s.saveDoc(userID, doc)
}

// StartRandomSeeded begins a random session with a caller-chosen seed,
// used to replay a particular shuffle
func (s *QuizService) StartRandomSeeded(userID int64, seed int64) error {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return err
	}
	if err := s.lifecycle.StartRandomSeeded(doc, seed); err != nil {
		return err
	}
	return s.saveDoc(userID, doc)
}

// Resume restores a suspended session from its saved slot
func (s *QuizService) Resume(userID int64, rough bool, slot string) error {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return err
	}
	if err := s.lifecycle.Resume(doc, rough, slot); err != nil {
		return err
	}
	return s.saveDoc(userID, doc)
}

// CurrentQuestion returns the active session's current question
func (s *QuizService) CurrentQuestion(userID int64) (*quiz.Question, error) {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return nil, err
	}
	return s.lifecycle.CurrentQuestion(doc)
}

// SubmitAnswer grades the current question. Each submission is also
// recorded as an attempt for the ranking and progress screens.
func (s *QuizService) SubmitAnswer(userID int64, answer string) (*quiz.Feedback, error) {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return nil, err
	}

	question, err := s.lifecycle.CurrentQuestion(doc)
	if err != nil {
		return nil, err
	}

	feedback, err := s.lifecycle.SubmitAnswer(doc, answer)
	if err != nil {
		return nil, err
	}
	if err := s.saveDoc(userID, doc); err != nil {
		return nil, err
	}

	// Ranking data is best effort, the quiz must not fail because of it
	if err := s.attemptRepo.Record(userID, question.Word, string(question.Dir), feedback.WasCorrect); err != nil {
		log.Printf("Failed to record attempt for user %d: %v", userID, err)
	}

	return feedback, nil
}

// Advance moves to the next question after feedback was shown
func (s *QuizService) Advance(userID int64) (exhausted bool, err error) {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return false, err
	}
	exhausted, err = s.lifecycle.Advance(doc)
	if err != nil {
		return false, err
	}
	return exhausted, s.saveDoc(userID, doc)
}

// Finish completes the active session and returns its result
func (s *QuizService) Finish(userID int64) (*quiz.Result, error) {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return nil, err
	}
	result, err := s.lifecycle.Finish(doc)
	if err != nil {
		return nil, err
	}
	if err := s.saveDoc(userID, doc); err != nil {
		return nil, err
	}
	return result, nil
}

// Progress reports the active session's score so far
func (s *QuizService) Progress(userID int64) (*quiz.SessionProgress, error) {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return nil, err
	}
	return s.lifecycle.Progress(doc)
}

// Suspend saves the active session into its slot for later
func (s *QuizService) Suspend(userID int64) error {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return err
	}
	if err := s.lifecycle.Suspend(doc); err != nil {
		return err
	}
	return s.saveDoc(userID, doc)
}

// Abandon drops the active session without saving it
func (s *QuizService) Abandon(userID int64) error {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return err
	}
	s.lifecycle.Abandon(doc)
	return s.saveDoc(userID, doc)
}

// ExitRoughMode leaves multiple choice mode and discards its
// temporary mistakes
func (s *QuizService) ExitRoughMode(userID int64) error {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return err
	}
	s.lifecycle.ExitRoughMode(doc)
	return s.saveDoc(userID, doc)
}

// ResetAll wipes mistakes, saved sessions and the active session. The
// direction setting survives a reset.
func (s *QuizService) ResetAll(userID int64) error {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return err
	}
	s.lifecycle.ResetAll(doc)
	return s.saveDoc(userID, doc)
}

// MistakeWords returns the words in the user's review set
func (s *QuizService) MistakeWords(userID int64) ([]int, error) {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return nil, err
	}
	return doc.Mistakes.UnifiedWords(), nil
}

// RemoveWord deletes a word from every mistake list and saved session
func (s *QuizService) RemoveWord(userID int64, word int) error {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return err
	}
	s.lifecycle.RemoveWordEverywhere(doc, word)
	return s.saveDoc(userID, doc)
}

// RemoveWords deletes several words at once
func (s *QuizService) RemoveWords(userID int64, words []int) error {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return err
	}
	s.lifecycle.BulkRemove(doc, words)
	return s.saveDoc(userID, doc)
}

// SavedSlots lists the suspended sessions for the menu screen
func (s *QuizService) SavedSlots(userID int64, rough bool) (map[string]*quiz.Snapshot, error) {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return nil, err
	}
	return doc.Saved.Slots(rough, doc.Dir), nil
}

// HasActiveSession reports whether the user is mid-session
func (s *QuizService) HasActiveSession(userID int64) (bool, error) {
	doc, err := s.loadDoc(userID)
	if err != nil {
		return false, err
	}
	return doc.Active != nil, nil
}
