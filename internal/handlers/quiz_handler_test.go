package handlers

import (
	"bytes"
	"context"
	"log"
	"math/rand"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"vocabdrill/internal/database"
	"vocabdrill/internal/models"
	"vocabdrill/internal/quiz"
	"vocabdrill/internal/repository"
	"vocabdrill/internal/service"
	"vocabdrill/internal/words"
)

func newTestQuizHandler(t *testing.T) (*QuizHandler, *models.User) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "quiz_handler_test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations/" + db.Dialect.MigrationsSubdir()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	user, err := userRepo.CreateUser("ranger", "unused-hash", "Ranger", false)
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	table := words.NewTable([]quiz.WordEntry{
		{English: "apple", Japanese: "リンゴ"},
		{English: "book", Japanese: "本"},
		{English: "cat", Japanese: "猫"},
	})
	lifecycle := quiz.NewLifecycle(table, quiz.ContainmentMatcher{}, rand.New(rand.NewSource(1)))
	quizService := service.NewQuizService(repository.NewStateRepository(db), repository.NewAttemptRepository(db), lifecycle)

	return NewQuizHandler(quizService, nil, table, nil, nil), user
}

func postRangeForm(h *QuizHandler, user *models.User, form string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/quiz/range", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(context.WithValue(req.Context(), UserContextKey, user))

	recorder := httptest.NewRecorder()
	h.StartRange(recorder, req)
	return recorder
}

func TestStartRangeRejectsReversedRange(t *testing.T) {
	h, user := newTestQuizHandler(t)

	recorder := postRangeForm(h, user, "start=9&end=4")

	if recorder.Code != 400 {
		t.Fatalf("expected status 400, got %d", recorder.Code)
	}
	if body := strings.TrimSpace(recorder.Body.String()); body != "Invalid range" {
		t.Fatalf("expected body 'Invalid range', got %q", body)
	}
}

func TestStartRangeReportsEndParseFailure(t *testing.T) {
	h, user := newTestQuizHandler(t)

	var logged bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&logged)
	defer logger.SetOutput(originalOutput)

	recorder := postRangeForm(h, user, "start=1&end=abc")

	if recorder.Code != 400 {
		t.Fatalf("expected status 400, got %d", recorder.Code)
	}
	// The failing value is the end field, and that is the error that
	// must reach the log.
	if !strings.Contains(logged.String(), `"abc"`) {
		t.Errorf("log does not mention the unparsable end value: %q", logged.String())
	}
}
