package handlers

import (
	"vocabdrill/internal/models"
	"vocabdrill/internal/quiz"
	"vocabdrill/internal/words"
)

type LoginViewData struct {
	Title          string
	User           *models.User
	OAuthProviders []OAuthProviderView
	Error          string
	Info           string
	Username       string
	Success        string
}

type SavedSlotView struct {
	Slot     string
	Label    string
	Position int
	Total    int
}

type MenuViewData struct {
	Title      string
	User       *models.User
	Direction  quiz.Direction
	Ranges     []words.Range
	SavedSlots []SavedSlotView
	HasActive  bool
	Ranking    []models.RankingEntry
	CSRFToken  string
}

type RoughMenuViewData struct {
	Title      string
	User       *models.User
	Direction  quiz.Direction
	Ranges     []words.Range
	SavedSlots []SavedSlotView
	CSRFToken  string
}

type QuestionViewData struct {
	Title     string
	User      *models.User
	Question  *quiz.Question
	Feedback  *quiz.Feedback
	CSRFToken string
}

type ResultViewData struct {
	Title       string
	User        *models.User
	Result      *quiz.Result
	MissedWords []WordView
	CSRFToken   string
}

type ProgressViewData struct {
	Title    string
	User     *models.User
	Progress *quiz.SessionProgress
}

type WordView struct {
	Index    int
	Number   int
	English  string
	Japanese string
}

type MistakesViewData struct {
	Title     string
	User      *models.User
	Words     []WordView
	CSRFToken string
}

type SearchViewData struct {
	Title   string
	User    *models.User
	Query   string
	Results []words.SearchResult
}

type StatsViewData struct {
	Title    string
	User     *models.User
	Ranking  []models.RankingEntry
	Progress []models.DailyProgress
}

type MyPageViewData struct {
	Title     string
	User      *models.User
	Error     string
	Success   string
	CSRFToken string
}

type ContactViewData struct {
	Title     string
	User      *models.User
	Error     string
	Success   string
	CSRFToken string
}

// AdminUserRow pairs an account with its attempt count over the past
// week for the admin overview.
type AdminUserRow struct {
	User           models.User
	WeeklyAttempts int
}

type AdminUsersViewData struct {
	Title     string
	User      *models.User
	Users     []AdminUserRow
	Error     string
	CSRFToken string
}

type AdminMessagesViewData struct {
	Title     string
	User      *models.User
	Messages  []models.ContactMessage
	CSRFToken string
}
