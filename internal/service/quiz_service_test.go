package service

import (
	"math/rand"
	"path/filepath"
	"testing"

	"vocabdrill/internal/database"
	"vocabdrill/internal/quiz"
	"vocabdrill/internal/repository"
	"vocabdrill/internal/words"
)

func newTestQuizService(t *testing.T) (*QuizService, *repository.AttemptRepository, int64) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "quiz_service_test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations/" + db.Dialect.MigrationsSubdir()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	user, err := userRepo.CreateUser("quizzer", "unused-hash", "Quizzer", false)
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	table := words.NewTable([]quiz.WordEntry{
		{English: "apple", Japanese: "リンゴ"},
		{English: "book", Japanese: "本"},
		{English: "cat", Japanese: "猫"},
	})
	lifecycle := quiz.NewLifecycle(table, quiz.ContainmentMatcher{}, rand.New(rand.NewSource(1)))

	stateRepo := repository.NewStateRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	return NewQuizService(stateRepo, attemptRepo, lifecycle), attemptRepo, user.ID
}

func TestQuizServiceFullSession(t *testing.T) {
	svc, _, userID := newTestQuizService(t)

	if err := svc.Start(userID, quiz.Detailed(1, 3)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Right, wrong, wrong
	answers := []string{"リンゴ", "wrong", "wrong"}
	for i, answer := range answers {
		question, err := svc.CurrentQuestion(userID)
		if err != nil {
			t.Fatalf("CurrentQuestion %d failed: %v", i+1, err)
		}
		if question.Number != i+1 || question.Total != 3 {
			t.Errorf("question %d: got number %d of %d", i+1, question.Number, question.Total)
		}

		feedback, err := svc.SubmitAnswer(userID, answer)
		if err != nil {
			t.Fatalf("SubmitAnswer %d failed: %v", i+1, err)
		}
		wantCorrect := i == 0
		if feedback.WasCorrect != wantCorrect {
			t.Errorf("answer %d: WasCorrect = %v, want %v", i+1, feedback.WasCorrect, wantCorrect)
		}

		exhausted, err := svc.Advance(userID)
		if err != nil {
			t.Fatalf("Advance %d failed: %v", i+1, err)
		}
		if wantExhausted := i == 2; exhausted != wantExhausted {
			t.Errorf("advance %d: exhausted = %v, want %v", i+1, exhausted, wantExhausted)
		}
	}

	result, err := svc.Finish(userID)
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if result.Score != 1 || result.Total != 3 {
		t.Errorf("result = %d/%d, want 1/3", result.Score, result.Total)
	}
	if len(result.Missed) != 2 {
		t.Errorf("missed %d words, want 2", len(result.Missed))
	}

	// Mistakes persist across sessions
	missed, err := svc.MistakeWords(userID)
	if err != nil {
		t.Fatalf("MistakeWords failed: %v", err)
	}
	if len(missed) != 2 {
		t.Errorf("MistakeWords returned %d words, want 2", len(missed))
	}

	active, err := svc.HasActiveSession(userID)
	if err != nil {
		t.Fatalf("HasActiveSession failed: %v", err)
	}
	if active {
		t.Error("no session should be active after Finish")
	}
}

func TestQuizServiceSuspendResume(t *testing.T) {
	svc, _, userID := newTestQuizService(t)

	if err := svc.Start(userID, quiz.Detailed(1, 3)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := svc.SubmitAnswer(userID, "リンゴ"); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if _, err := svc.Advance(userID); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	if err := svc.Suspend(userID); err != nil {
		t.Fatalf("Suspend failed: %v", err)
	}

	slots, err := svc.SavedSlots(userID, false)
	if err != nil {
		t.Fatalf("SavedSlots failed: %v", err)
	}
	snap, ok := slots["1-3"]
	if !ok {
		t.Fatalf("expected slot 1-3, got %v", slots)
	}
	if snap.Position != 1 || snap.Score != 1 {
		t.Errorf("snapshot position/score = %d/%d, want 1/1", snap.Position, snap.Score)
	}

	if err := svc.Resume(userID, false, "1-3"); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}

	question, err := svc.CurrentQuestion(userID)
	if err != nil {
		t.Fatalf("CurrentQuestion after resume failed: %v", err)
	}
	if question.Number != 2 {
		t.Errorf("resumed at question %d, want 2", question.Number)
	}

	// Resuming consumes the snapshot
	slots, err = svc.SavedSlots(userID, false)
	if err != nil {
		t.Fatalf("SavedSlots failed: %v", err)
	}
	if _, ok := slots["1-3"]; ok {
		t.Error("slot 1-3 should be gone after resume")
	}
}

func TestQuizServiceRecordsAttempts(t *testing.T) {
	svc, attemptRepo, userID := newTestQuizService(t)

	if err := svc.Start(userID, quiz.Detailed(1, 2)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := svc.SubmitAnswer(userID, "リンゴ"); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if _, err := svc.Advance(userID); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if _, err := svc.SubmitAnswer(userID, "wrong"); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	stats := NewStatsService(attemptRepo)
	ranking, err := stats.WeeklyRanking()
	if err != nil {
		t.Fatalf("WeeklyRanking failed: %v", err)
	}
	if len(ranking) != 1 {
		t.Fatalf("ranking has %d entries, want 1", len(ranking))
	}
	if ranking[0].CorrectCount != 1 {
		t.Errorf("CorrectCount = %d, want 1", ranking[0].CorrectCount)
	}

	progress, err := stats.WeeklyProgress(userID)
	if err != nil {
		t.Fatalf("WeeklyProgress failed: %v", err)
	}
	if len(progress) != 7 {
		t.Fatalf("progress has %d days, want 7", len(progress))
	}
	today := progress[len(progress)-1]
	if today.Total != 2 || today.Correct != 1 {
		t.Errorf("today = %d answered / %d correct, want 2/1", today.Total, today.Correct)
	}
}

func TestQuizServiceDirection(t *testing.T) {
	svc, _, userID := newTestQuizService(t)

	dir, err := svc.Direction(userID)
	if err != nil {
		t.Fatalf("Direction failed: %v", err)
	}
	if dir != quiz.EnglishToJapanese {
		t.Errorf("default direction = %v, want %v", dir, quiz.EnglishToJapanese)
	}

	if err := svc.SetDirection(userID, quiz.JapaneseToEnglish); err != nil {
		t.Fatalf("SetDirection failed: %v", err)
	}
	dir, err = svc.Direction(userID)
	if err != nil {
		t.Fatalf("Direction failed: %v", err)
	}
	if dir != quiz.JapaneseToEnglish {
		t.Errorf("direction = %v, want %v", dir, quiz.JapaneseToEnglish)
	}

	if err := svc.SetDirection(userID, quiz.Direction("sideways")); err == nil {
		t.Error("expected error for unknown direction")
	}
}
