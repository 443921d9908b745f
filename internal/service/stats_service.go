package service

import (
	"fmt"
	"time"

	"vocabdrill/internal/models"
	"vocabdrill/internal/repository"
)

const (
	rankingWindow = 7 * 24 * time.Hour
	rankingSize   = 3
	progressDays  = 7
)

// StatsService builds the leaderboard and per-user progress views
type StatsService struct {
	attemptRepo *repository.AttemptRepository
}

// NewStatsService creates a new stats service
func NewStatsService(attemptRepo *repository.AttemptRepository) *StatsService {
	return &StatsService{attemptRepo: attemptRepo}
}

// WeeklyRanking returns the top performers of the past week
func (s *StatsService) WeeklyRanking() ([]models.RankingEntry, error) {
	since := time.Now().Add(-rankingWindow)
	entries, err := s.attemptRepo.WeeklyTop(since, rankingSize)
	if err != nil {
		return nil, fmt.Errorf("failed to build ranking: %w", err)
	}
	return entries, nil
}

// WeeklyActivity returns every user's attempt count over the past week,
// keyed by user id. The admin page shows it next to each account.
func (s *StatsService) WeeklyActivity() (map[int64]int, error) {
	since := time.Now().Add(-rankingWindow)
	counts, err := s.attemptRepo.WeeklyCounts(since)
	if err != nil {
		return nil, fmt.Errorf("failed to build activity counts: %w", err)
	}
	return counts, nil
}

// WeeklyProgress returns a user's last seven days of attempts, one
// entry per day including empty days
func (s *StatsService) WeeklyProgress(userID int64) ([]models.DailyProgress, error) {
	since := time.Now().AddDate(0, 0, -(progressDays - 1)).Truncate(24 * time.Hour)
	progress, err := s.attemptRepo.DailyProgress(userID, since, progressDays)
	if err != nil {
		return nil, fmt.Errorf("failed to build progress: %w", err)
	}
	return progress, nil
}
