package models

import "time"

// QuizAttempt is one graded answer, recorded for the ranking and
// progress screens
type QuizAttempt struct {
	ID        int64
	UserID    int64
	WordIdx   int
	Direction string
	Correct   bool
	CreatedAt time.Time
}

// RankingEntry is one row of the weekly leaderboard
type RankingEntry struct {
	UserID       int64
	Nickname     string
	CorrectCount int
}

// DailyProgress aggregates one day's attempts for a user
type DailyProgress struct {
	Day     string
	Total   int
	Correct int
}

// Accuracy returns the day's correct percentage
func (p DailyProgress) Accuracy() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Correct) / float64(p.Total) * 100
}
