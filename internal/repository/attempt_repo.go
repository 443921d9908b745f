package repository

import (
	"fmt"
	"time"

	"vocabdrill/internal/database"
	"vocabdrill/internal/models"
)

// AttemptRepository records graded answers and aggregates them for the
// ranking and progress screens
type AttemptRepository struct {
	db *database.DB
}

// NewAttemptRepository creates a new attempt repository
func NewAttemptRepository(db *database.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Record stores one graded answer
func (r *AttemptRepository) Record(userID int64, wordIdx int, direction string, correct bool) error {
	query := `
		INSERT INTO quiz_attempts (user_id, word_idx, direction, correct)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, userID, wordIdx, direction, correct); err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// WeeklyTop returns the users with the most correct answers since the
// cutoff, best first
func (r *AttemptRepository) WeeklyTop(since time.Time, limit int) ([]models.RankingEntry, error) {
	query := `
		SELECT u.id, u.nickname, COUNT(*)
		FROM quiz_attempts a
		JOIN users u ON u.id = a.user_id
		WHERE a.correct = ` + r.db.Dialect.BoolValue(true) + ` AND a.created_at >= ?
		GROUP BY u.id, u.nickname
		ORDER BY COUNT(*) DESC, u.id ASC
		LIMIT ?
	`
	rows, err := r.db.Query(query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking: %w", err)
	}
	defer rows.Close()

	var entries []models.RankingEntry
	for rows.Next() {
		var e models.RankingEntry
		if err := rows.Scan(&e.UserID, &e.Nickname, &e.CorrectCount); err != nil {
			return nil, fmt.Errorf("failed to scan ranking entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// WeeklyCounts returns each user's attempt count since the cutoff,
// right or wrong. Users with no attempts are absent from the map.
func (r *AttemptRepository) WeeklyCounts(since time.Time) (map[int64]int, error) {
	query := `
		SELECT user_id, COUNT(*)
		FROM quiz_attempts
		WHERE created_at >= ?
		GROUP BY user_id
	`
	rows, err := r.db.Query(query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempt counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var count int
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan attempt count: %w", err)
		}
		counts[userID] = count
	}

	return counts, nil
}

// DailyProgress aggregates a user's attempts per calendar day since the
// cutoff. Days with no attempts are filled in with zero counts so the
// chart always covers the full window.
func (r *AttemptRepository) DailyProgress(userID int64, since time.Time, days int) ([]models.DailyProgress, error) {
	query := `
		SELECT created_at, correct
		FROM quiz_attempts
		WHERE user_id = ? AND created_at >= ?
	`
	rows, err := r.db.Query(query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	// Aggregate in Go so day grouping works the same on every dialect
	byDay := make(map[string]*models.DailyProgress)
	for rows.Next() {
		var at time.Time
		var correct bool
		if err := rows.Scan(&at, &correct); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		day := at.Format("2006-01-02")
		p, ok := byDay[day]
		if !ok {
			p = &models.DailyProgress{Day: day}
			byDay[day] = p
		}
		p.Total++
		if correct {
			p.Correct++
		}
	}

	var progress []models.DailyProgress
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		if p, ok := byDay[day]; ok {
			progress = append(progress, *p)
		} else {
			progress = append(progress, models.DailyProgress{Day: day})
		}
	}

	return progress, nil
}
